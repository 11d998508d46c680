package ytdlp

import (
	"time"

	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

type implClient struct {
	exec    executor.Executor
	binary  string
	timeout time.Duration
}

// New creates a new Client instance
func New(exec executor.Executor, binary string, timeout time.Duration) Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &implClient{
		exec:    exec,
		binary:  binary,
		timeout: timeout,
	}
}
