package transcript

import (
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// defaultLanguages are tried in order when Options.Languages is empty.
var defaultLanguages = []string{"en", "en-US", "en-GB", "en-IN"}

type Options struct {
	Languages []string
	Logger    logger.Logger
	Observer  Observer
}

type implOrchestrator struct {
	strategies []Strategy
	languages  []string
	logger     logger.Logger
	observer   Observer
}

// New creates a Fetcher that tries strategies in the given order.
func New(strategies []Strategy, opts Options) (Fetcher, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	o := &implOrchestrator{
		strategies: append([]Strategy(nil), strategies...),
		languages:  opts.Languages,
		logger:     opts.Logger,
		observer:   opts.Observer,
	}
	if len(o.languages) == 0 {
		o.languages = defaultLanguages
	}
	if o.logger == nil {
		o.logger = logger.NewNop()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	return o, nil
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, string) {}
