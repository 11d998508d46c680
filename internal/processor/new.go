package processor

import (
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/metrics"
	"github.com/nguyentantai21042004/caption-digest/internal/misscache"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type implProcessor struct {
	fetcher    transcript.Fetcher
	summarizer summarizer.Summarizer
	cache      misscache.Cache
	metrics    *metrics.Registry
	logger     logger.Logger
	limit      *limiter
}

// Deps are the collaborators of a Processor. Summarizer may be nil when only
// transcripts are requested; Cache and Metrics default to no-ops.
type Deps struct {
	Fetcher    transcript.Fetcher
	Summarizer summarizer.Summarizer
	Cache      misscache.Cache
	Metrics    *metrics.Registry
	Logger     logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps) Processor {
	p := &implProcessor{
		fetcher:    deps.Fetcher,
		summarizer: deps.Summarizer,
		cache:      deps.Cache,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if p.cache == nil {
		p.cache, _ = misscache.New("", 0)
	}
	if p.metrics == nil {
		p.metrics = metrics.New()
	}
	p.limit = newLimiter(cfg.Performance.MaxConcurrent, &p.metrics.InFlight)
	if p.logger == nil {
		p.logger = logger.NewNop()
	}
	return p
}
