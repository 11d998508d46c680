package fetch

import (
	"net/http"
	"time"
)

// DefaultMaxBody caps how much of a response body is read.
const DefaultMaxBody = 4 << 20

type Options struct {
	UserAgent string
	Timeout   time.Duration
	MaxBody   int64
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

type implClient struct {
	http      *http.Client
	userAgent string
	timeout   time.Duration
	maxBody   int64
}

// New creates a new Client instance
func New(opts Options) Client {
	c := &implClient{
		http:      opts.HTTPClient,
		userAgent: opts.UserAgent,
		timeout:   opts.Timeout,
		maxBody:   opts.MaxBody,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxBody
	}
	return c
}
