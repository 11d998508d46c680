package executor

import "context"

// Executor runs external programs such as yt-dlp and returns their stdout.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	// LookPath reports whether name resolves to an executable on PATH.
	LookPath(name string) (string, error)
}
