package summarizer

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

var (
	ErrNoAPIKey      = errors.New("summarizer: no API key configured")
	ErrEmptyResponse = errors.New("summarizer: empty response")
)

// New creates the Summarizer for cfg.Provider.
func New(cfg config.SummarizerConfig, log logger.Logger) (Summarizer, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, cfg.Provider)
	}
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return newGemini(cfg, log), nil
	case config.ProviderAnthropic:
		return newAnthropic(cfg, log), nil
	case config.ProviderHuggingFace:
		return newHuggingFace(cfg, log, nil), nil
	default:
		return nil, fmt.Errorf("summarizer: unknown provider %q", cfg.Provider)
	}
}
