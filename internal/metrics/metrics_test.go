package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAttemptConcurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.ObserveAttempt("timedtext", "transient")
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), r.Attempts("timedtext", "transient"))
	assert.Equal(t, int64(0), r.Attempts("timedtext", "success"))
}

func TestWritePrometheus(t *testing.T) {
	r := New()
	r.Requests.Add(3)
	r.Unavailable.Add(1)
	r.InFlight.Add(2)
	r.ObserveAttempt("download", "success")
	r.ObserveAttempt("captions_api", "not_available")

	var sb strings.Builder
	require.NoError(t, r.WritePrometheus(&sb))
	out := sb.String()

	assert.Contains(t, out, "# TYPE caption_digest_requests_total counter\ncaption_digest_requests_total 3\n")
	assert.Contains(t, out, "caption_digest_unavailable_total 1\n")
	assert.Contains(t, out, "# TYPE caption_digest_requests_in_flight gauge\ncaption_digest_requests_in_flight 2\n")
	assert.Contains(t, out, `caption_digest_strategy_attempts_total{strategy="captions_api",outcome="not_available"} 1`)

	first := strings.Index(out, `strategy="captions_api"`)
	second := strings.Index(out, `strategy="download"`)
	assert.True(t, first < second, "attempt lines must be sorted")
}

func TestHandler(t *testing.T) {
	r := New()
	r.Summaries.Add(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "caption_digest_summaries_total 2")
}
