package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
	"github.com/nguyentantai21042004/caption-digest/internal/videoid"
)

// ErrUpstream marks a failure of the summarization service, as opposed to a
// missing transcript.
var ErrUpstream = errors.New("processor: summarization failed")

// Transcript resolves rawURL to a transcript through the negative cache and
// the strategy chain.
func (p *implProcessor) Transcript(ctx context.Context, rawURL string) (transcript.Transcript, error) {
	if err := p.limit.acquire(ctx); err != nil {
		return transcript.Transcript{}, err
	}
	defer p.limit.release()

	p.metrics.Requests.Add(1)
	return p.fetch(ctx, rawURL)
}

// Summarize fetches the transcript and hands it to the summarizer. The
// summarizer is never called when no transcript could be obtained.
func (p *implProcessor) Summarize(ctx context.Context, rawURL string) (Summary, error) {
	if err := p.limit.acquire(ctx); err != nil {
		return Summary{}, err
	}
	defer p.limit.release()

	p.metrics.Requests.Add(1)
	startTime := time.Now()

	tr, err := p.fetch(ctx, rawURL)
	if err != nil {
		return Summary{}, err
	}
	if p.summarizer == nil {
		return Summary{}, fmt.Errorf("%w: no summarizer configured", ErrUpstream)
	}

	text, err := p.summarizer.Summarize(ctx, tr.Text)
	if err != nil {
		p.metrics.SummaryFailures.Add(1)
		p.logger.Error(ctx, "Summarize %s failed: %v", tr.VideoID, err)
		return Summary{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	p.metrics.Summaries.Add(1)

	p.logger.Info(ctx, "Summary for %s ready (transcript via %s, %d -> %d chars) in %s",
		tr.VideoID, tr.Source, len(tr.Text), len(text), time.Since(startTime).Round(time.Millisecond))

	return Summary{
		VideoID:    tr.VideoID,
		Source:     tr.Source,
		Transcript: tr.Text,
		Text:       text,
	}, nil
}

func (p *implProcessor) fetch(ctx context.Context, rawURL string) (transcript.Transcript, error) {
	ref, ok := videoid.Extract(rawURL)
	if !ok {
		p.metrics.InvalidInput.Add(1)
		return transcript.Transcript{}, fmt.Errorf("%w: %q", transcript.ErrInvalidInput, rawURL)
	}

	missing, err := p.cache.IsMissing(ctx, ref.String())
	if err != nil {
		p.logger.Warn(ctx, "Miss cache lookup for %s: %v", ref, err)
	}
	if missing {
		p.metrics.CacheHits.Add(1)
		p.metrics.Unavailable.Add(1)
		p.logger.Info(ctx, "No captions for %s (cached)", ref)
		return transcript.Transcript{}, &transcript.UnavailableError{
			VideoID:  ref.String(),
			Attempts: []transcript.Attempt{{Strategy: "miss_cache", Kind: transcript.KindNotAvailable, Reason: "recently unavailable"}},
		}
	}

	tr, err := p.fetcher.Fetch(ctx, rawURL)
	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, transcript.ErrUnavailable):
		p.metrics.Unavailable.Add(1)
		if ctx.Err() != nil || !captionsAbsent(err) {
			break
		}
		if cacheErr := p.cache.MarkMissing(ctx, ref.String()); cacheErr != nil {
			p.logger.Warn(ctx, "Miss cache store for %s: %v", ref, cacheErr)
		}
	case errors.Is(err, transcript.ErrInvalidInput):
		p.metrics.InvalidInput.Add(1)
	}
	return transcript.Transcript{}, err
}

// captionsAbsent reports whether every strategy positively found no captions.
// A chain with any transient failure (rate limit, timeout, outage) may
// succeed on retry and must not be remembered as missing.
func captionsAbsent(err error) bool {
	var unavailable *transcript.UnavailableError
	if !errors.As(err, &unavailable) || len(unavailable.Attempts) == 0 {
		return false
	}
	for _, a := range unavailable.Attempts {
		if a.Kind != transcript.KindNotAvailable {
			return false
		}
	}
	return true
}
