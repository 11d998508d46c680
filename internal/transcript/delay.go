package transcript

import (
	"math/rand/v2"
	"time"
)

// Delay is a courtesy pause taken before an upstream call. It is a bounded
// sleep and is not cut short by request cancellation.
type Delay interface {
	Wait()
}

// NoDelay never waits. Tests use it.
type NoDelay struct{}

func (NoDelay) Wait() {}

// RandomDelay sleeps for a uniformly random duration in [Min, Max].
type RandomDelay struct {
	Min time.Duration
	Max time.Duration
}

func (d RandomDelay) Wait() {
	if wait := d.duration(); wait > 0 {
		time.Sleep(wait)
	}
}

func (d RandomDelay) duration() time.Duration {
	if d.Max <= d.Min {
		return d.Min
	}
	return d.Min + rand.N(d.Max-d.Min+1)
}
