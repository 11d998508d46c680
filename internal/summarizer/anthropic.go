package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

type promptFunc func(system, user, apiKey string, settings types.RequestSettings) (string, error)

type anthropicSummarizer struct {
	apiKey   string
	settings types.RequestSettings
	maxChars int
	logger   logger.Logger
	prompt   promptFunc
}

func newAnthropic(cfg config.SummarizerConfig, log logger.Logger) *anthropicSummarizer {
	return &anthropicSummarizer{
		apiKey: cfg.APIKeys[0],
		settings: types.RequestSettings{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
		maxChars: cfg.MaxTranscriptChars,
		logger:   log,
		prompt:   promptAnthropic,
	}
}

// Summarize calls the Messages API. llmkit does not take a context, so the
// call runs in a goroutine and is abandoned if ctx ends first.
func (s *anthropicSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	user := fmt.Sprintf(userPrompt, truncate(transcript, s.maxChars))

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := s.prompt(systemPrompt, user, s.apiKey, s.settings)
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("anthropic prompt: %w", res.err)
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", ErrEmptyResponse
		}
		s.logger.Debug(ctx, "Anthropic summary: %d chars", len(text))
		return text, nil
	}
}

func promptAnthropic(system, user, apiKey string, settings types.RequestSettings) (string, error) {
	response, err := anthropic.PromptWithSettings(system, user, "", apiKey, settings)
	if err != nil {
		return "", err
	}
	if len(response.Content) == 0 {
		return "", ErrEmptyResponse
	}
	return response.Content[0].Text, nil
}
