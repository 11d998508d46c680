package fetch

import "context"

// Client downloads caption documents over HTTP.
type Client interface {
	// Get fetches url and returns the response body. Any status other than
	// 200 is reported as *HTTPError.
	Get(ctx context.Context, url string) ([]byte, error)
}
