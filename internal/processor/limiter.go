package processor

import (
	"context"
	"sync/atomic"
)

// limiter caps how many requests run at once. inFlight mirrors the number of
// held slots so it can be exported as a gauge.
type limiter struct {
	slots    chan struct{}
	inFlight *atomic.Int64
}

func newLimiter(maxConcurrent int, inFlight *atomic.Int64) *limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if inFlight == nil {
		inFlight = new(atomic.Int64)
	}
	return &limiter{slots: make(chan struct{}, maxConcurrent), inFlight: inFlight}
}

// acquire blocks for a free slot or until ctx is done.
func (l *limiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		l.inFlight.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limiter) release() {
	l.inFlight.Add(-1)
	<-l.slots
}
