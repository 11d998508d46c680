package processor

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Processor runs one user request: URL to transcript, optionally to summary.
type Processor interface {
	Transcript(ctx context.Context, rawURL string) (transcript.Transcript, error)
	Summarize(ctx context.Context, rawURL string) (Summary, error)
}

// Summary is a finished summary plus the transcript it was made from.
type Summary struct {
	VideoID    string
	Source     string
	Transcript string
	Text       string
}
