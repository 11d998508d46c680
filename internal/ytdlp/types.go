package ytdlp

import "errors"

var (
	ErrNotInstalled     = errors.New("ytdlp: extractor binary not installed")
	ErrVideoUnavailable = errors.New("ytdlp: video unavailable")
	ErrBadOutput        = errors.New("ytdlp: unreadable metadata output")
)

// Options are passed on every call; the client keeps no per-request state.
type Options struct {
	Languages   []string
	UserAgent   string
	Retries     int
	CookiesFile string
	// SubFormat is the --sub-format preference used by DownloadSubtitles.
	SubFormat string
}

// Track is one downloadable rendition of a caption track.
type Track struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Info is the subset of the --dump-json document this package reads.
type Info struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Channel           string             `json:"channel"`
	Duration          float64            `json:"duration"`
	Subtitles         map[string][]Track `json:"subtitles"`
	AutomaticCaptions map[string][]Track `json:"automatic_captions"`
}
