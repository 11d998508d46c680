package misscache

import "context"

// Cache remembers video ids for which no captions could be found, so repeat
// requests can skip the upstream strategy chain for a while. It never stores
// transcript text.
type Cache interface {
	IsMissing(ctx context.Context, videoID string) (bool, error)
	MarkMissing(ctx context.Context, videoID string) error
	Close() error
}
