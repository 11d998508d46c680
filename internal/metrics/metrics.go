// Package metrics keeps process-wide request counters and renders them in
// the Prometheus text exposition format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
)

const namespace = "caption_digest"

// Registry holds the counters. The zero value is not usable; call New.
type Registry struct {
	Requests        atomic.Int64
	InvalidInput    atomic.Int64
	Unavailable     atomic.Int64
	CacheHits       atomic.Int64
	Summaries       atomic.Int64
	SummaryFailures atomic.Int64

	// InFlight is a gauge of requests currently holding a processing slot.
	InFlight atomic.Int64

	mu       sync.Mutex
	attempts map[attemptKey]*atomic.Int64
}

type attemptKey struct {
	strategy string
	kind     string
}

func New() *Registry {
	return &Registry{attempts: make(map[attemptKey]*atomic.Int64)}
}

// ObserveAttempt counts one strategy attempt by outcome kind.
func (r *Registry) ObserveAttempt(strategy, kind string) {
	key := attemptKey{strategy: strategy, kind: kind}
	r.mu.Lock()
	c, ok := r.attempts[key]
	if !ok {
		c = new(atomic.Int64)
		r.attempts[key] = c
	}
	r.mu.Unlock()
	c.Add(1)
}

// Attempts returns the count for one strategy and outcome kind.
func (r *Registry) Attempts(strategy, kind string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.attempts[attemptKey{strategy, kind}]; ok {
		return c.Load()
	}
	return 0
}

// WritePrometheus writes every counter in text exposition format.
func (r *Registry) WritePrometheus(w io.Writer) error {
	counters := []struct {
		name, help string
		value      *atomic.Int64
	}{
		{"requests_total", "Transcript and summary requests received.", &r.Requests},
		{"invalid_input_total", "Requests whose URL held no video id.", &r.InvalidInput},
		{"unavailable_total", "Requests where every strategy failed.", &r.Unavailable},
		{"miss_cache_hits_total", "Requests answered from the negative cache.", &r.CacheHits},
		{"summaries_total", "Summaries produced.", &r.Summaries},
		{"summary_failures_total", "Summarizer calls that failed.", &r.SummaryFailures},
	}
	for _, c := range counters {
		name := namespace + "_" + c.name
		if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", name, c.help, name, name, c.value.Load()); err != nil {
			return err
		}
	}

	inFlight := namespace + "_requests_in_flight"
	if _, err := fmt.Fprintf(w, "# HELP %s Requests currently being processed.\n# TYPE %s gauge\n%s %d\n", inFlight, inFlight, inFlight, r.InFlight.Load()); err != nil {
		return err
	}

	r.mu.Lock()
	keys := make([]attemptKey, 0, len(r.attempts))
	for k := range r.attempts {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].strategy != keys[j].strategy {
			return keys[i].strategy < keys[j].strategy
		}
		return keys[i].kind < keys[j].kind
	})

	name := namespace + "_strategy_attempts_total"
	if _, err := fmt.Fprintf(w, "# HELP %s Strategy attempts by outcome.\n# TYPE %s counter\n", name, name); err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s{strategy=%q,outcome=%q} %d\n", name, k.strategy, k.kind, r.Attempts(k.strategy, k.kind)); err != nil {
			return err
		}
	}
	return nil
}

// Handler serves WritePrometheus over HTTP.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_ = r.WritePrometheus(w)
	})
}
