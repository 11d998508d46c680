package transcript

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/videoid"
)

// Request is what a strategy receives for one retrieval attempt.
type Request struct {
	URL       string
	Ref       videoid.Ref
	Languages []string
}

// Strategy is one independent way of obtaining captions. Retrieve must not
// panic or return raw errors; every failure is folded into the Outcome.
type Strategy interface {
	Name() string
	Retrieve(ctx context.Context, req Request) Outcome
}

// Fetcher runs the strategy chain for a user-supplied URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Transcript, error)
}

// Observer receives one call per strategy attempt. Kind is the outcome's
// String() form.
type Observer interface {
	ObserveAttempt(strategy, kind string)
}
