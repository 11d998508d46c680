package httpapi

import (
	"net/http"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/metrics"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
)

// maxBody bounds request bodies; the only field is a URL.
const maxBody = 16 << 10

type handler struct {
	proc    processor.Processor
	metrics *metrics.Registry
	logger  logger.Logger
}

// New returns the request layer: /ping, /summary, /transcript and /metrics
// behind a permissive CORS middleware.
func New(proc processor.Processor, reg *metrics.Registry, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if reg == nil {
		reg = metrics.New()
	}
	h := &handler{proc: proc, metrics: reg, logger: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", h.ping)
	mux.HandleFunc("POST /summary", h.summary)
	mux.HandleFunc("POST /transcript", h.transcript)
	mux.Handle("GET /metrics", reg.Handler())

	return withCORS(withRequestLog(mux, log))
}
