package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxLength      int  `json:"max_length"`
	MinLength      int  `json:"min_length"`
	DoSample       bool `json:"do_sample"`
	ReturnFullText bool `json:"return_full_text"`
}

type hfGeneration struct {
	GeneratedText string `json:"generated_text"`
}

type hfError struct {
	Error string `json:"error"`
}

type huggingFaceSummarizer struct {
	endpoint  string
	token     string
	maxTokens int
	maxChars  int
	timeout   time.Duration
	http      *http.Client
	logger    logger.Logger
}

func newHuggingFace(cfg config.SummarizerConfig, log logger.Logger, client *http.Client) *huggingFaceSummarizer {
	if client == nil {
		client = &http.Client{}
	}
	return &huggingFaceSummarizer{
		endpoint:  cfg.Endpoint,
		token:     cfg.APIKeys[0],
		maxTokens: cfg.MaxTokens,
		maxChars:  cfg.MaxTranscriptChars,
		timeout:   cfg.Timeout,
		http:      client,
		logger:    log,
	}
}

// Summarize posts a text-generation request to the inference endpoint.
func (s *huggingFaceSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(hfRequest{
		Inputs: fmt.Sprintf(instructPrompt, systemPrompt, truncate(transcript, s.maxChars)),
		Parameters: hfParameters{
			MaxLength:      s.maxTokens,
			MinLength:      30,
			DoSample:       false,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e hfError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return "", fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, e.Error)
		}
		return "", fmt.Errorf("inference endpoint returned %d", resp.StatusCode)
	}

	var out []hfGeneration
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out[0].GeneratedText), nil
}
