package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Option customizes a Watcher.
type Option func(*implWatcher)

// WithSettleDelay sets how long to wait after a create event before the file
// is handed to the handler, so writers can finish.
func WithSettleDelay(d time.Duration) Option {
	return func(w *implWatcher) { w.settle = d }
}

// New creates a new Watcher instance with concurrency control
func New(inboxDir string, handler FileHandler, log logger.Logger, maxConcurrent int, opts ...Option) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	w := &implWatcher{
		inboxDir:      inboxDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        500 * time.Millisecond,
		inFlight:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
