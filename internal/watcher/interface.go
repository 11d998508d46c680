package watcher

import "context"

// Watcher feeds URL list files from an inbox directory to a FileHandler.
type Watcher interface {
	// Start blocks until ctx is cancelled, then waits for running handlers.
	Start(ctx context.Context) error
	Stop() error
}

// FileHandler processes one inbox file. Inbox.Handle is the production
// implementation.
type FileHandler func(ctx context.Context, path string) error
