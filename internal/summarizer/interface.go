package summarizer

import "context"

// Summarizer turns a plain-text transcript into a short prose summary.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
