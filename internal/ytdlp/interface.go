package ytdlp

import "context"

// Client wraps the yt-dlp media-metadata extractor.
type Client interface {
	// ExtractInfo returns the video metadata, including the subtitle and
	// automatic-caption track lists, without downloading any media.
	ExtractInfo(ctx context.Context, url string, opts Options) (*Info, error)
	// DownloadSubtitles writes subtitle files for url into dir and returns
	// their paths. No media is downloaded.
	DownloadSubtitles(ctx context.Context, url, dir string, opts Options) ([]string, error)
}
