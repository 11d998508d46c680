package transcript

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
	"github.com/nguyentantai21042004/caption-digest/internal/videoid"
)

// Fetch extracts the video id from rawURL and runs the strategies one at a
// time, returning the first successful transcript. Strategies are never run
// in parallel and never retried within one call.
func (o *implOrchestrator) Fetch(ctx context.Context, rawURL string) (Transcript, error) {
	ref, ok := videoid.Extract(rawURL)
	if !ok {
		return Transcript{}, fmt.Errorf("%w: %q", ErrInvalidInput, rawURL)
	}

	req := Request{
		URL:       rawURL,
		Ref:       ref,
		Languages: o.languages,
	}

	attempts := make([]Attempt, 0, len(o.strategies))
	for _, s := range o.strategies {
		if err := ctx.Err(); err != nil {
			return Transcript{}, err
		}

		start := time.Now()
		out := o.run(ctx, s, req)
		if out.Kind == KindSuccess {
			out.Text = normalize.Clean(out.Text)
			if out.Text == "" {
				out = Outcome{Kind: KindTransient, Reason: "strategy returned an empty transcript"}
			}
		}
		o.observer.ObserveAttempt(s.Name(), out.Kind.String())

		if out.Kind == KindSuccess {
			o.logger.Info(ctx, "Transcript for %s from %s: %d chars in %s",
				ref, s.Name(), len(out.Text), time.Since(start).Round(time.Millisecond))
			return Transcript{VideoID: ref.String(), Text: out.Text, Source: s.Name()}, nil
		}

		o.logger.Warn(ctx, "Strategy %s for %s: %s: %s", s.Name(), ref, out.Kind, out.Reason)
		attempts = append(attempts, Attempt{Strategy: s.Name(), Kind: out.Kind, Reason: out.Reason})
	}

	err := &UnavailableError{VideoID: ref.String(), Attempts: attempts}
	o.logger.Warn(ctx, "No captions for %s after %d strategies", ref, len(attempts))
	return Transcript{}, err
}

// run isolates one strategy: a panic is reported as a transient failure.
func (o *implOrchestrator) run(ctx context.Context, s Strategy, req Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: KindTransient, Reason: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return s.Retrieve(ctx, req)
}
