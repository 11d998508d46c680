package transcript

import (
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/fetch"
	"github.com/nguyentantai21042004/caption-digest/internal/ytdlp"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// Deps are the collaborators BuildStrategies wires into each strategy.
// Nil fields are filled with the production implementations.
type Deps struct {
	Executor  executor.Executor
	Extractor ytdlp.Client
	HTTP      fetch.Client
	Lister    TranscriptLister
	// DisableDelays replaces every courtesy delay with NoDelay.
	DisableDelays bool
}

// BuildStrategies creates the strategies named in cfg.Strategies, in order.
func BuildStrategies(cfg config.TranscriptConfig, deps Deps) ([]Strategy, error) {
	if deps.Executor == nil {
		deps.Executor = executor.New()
	}
	if deps.Extractor == nil {
		deps.Extractor = ytdlp.New(deps.Executor, cfg.Extractor.Binary, cfg.Extractor.Timeout)
	}
	if deps.HTTP == nil {
		deps.HTTP = fetch.New(fetch.Options{UserAgent: cfg.UserAgent, Timeout: cfg.HTTPTimeout})
	}

	delay := func(name string) Delay {
		d, ok := cfg.Delays[name]
		if deps.DisableDelays || !ok {
			return NoDelay{}
		}
		return RandomDelay{Min: d.Min, Max: d.Max}
	}

	extractorOpts := ytdlp.Options{
		UserAgent:   cfg.UserAgent,
		Retries:     cfg.Extractor.Retries,
		CookiesFile: cfg.Extractor.CookiesFile,
	}

	strategies := make([]Strategy, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		switch name {
		case config.StrategyCaptionsAPI:
			lister := deps.Lister
			if lister == nil {
				lister = NewYTTranscriptLister()
			}
			strategies = append(strategies, NewCaptionsAPI(lister, delay(name)))
		case config.StrategyMediaExtractor:
			strategies = append(strategies, NewMediaExtractor(deps.Extractor, deps.HTTP, extractorOpts, delay(name)))
		case config.StrategyTimedText:
			strategies = append(strategies, NewTimedText(cfg.TimedText.Endpoint, cfg.TimedText.Format, deps.HTTP, delay(name)))
		case config.StrategyDownload:
			strategies = append(strategies, NewDownload(deps.Extractor, cfg.TempDir, extractorOpts, delay(name)))
		case config.StrategyInvidious:
			strategies = append(strategies, NewInvidious(cfg.InvidiousInstances, deps.HTTP, delay(name)))
		default:
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
	}
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	return strategies, nil
}
