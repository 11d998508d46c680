package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// outputTemplate is relative to the download directory. yt-dlp inserts the
// language code before the extension, e.g. dQw4w9WgXcQ.en.json3.
const outputTemplate = "%(id)s.%(ext)s"

var unavailableMarkers = []string{
	"Video unavailable",
	"Private video",
	"This video is not available",
	"This video has been removed",
}

func (c *implClient) ExtractInfo(ctx context.Context, url string, opts Options) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append([]string{"--dump-json"}, c.commonArgs(opts)...)
	args = append(args, url)

	out, err := c.exec.Execute(ctx, c.binary, args...)
	if err != nil {
		return nil, c.classify(err)
	}

	// A single video prints one JSON document; keep the first line if more follow.
	line := bytes.TrimSpace([]byte(out))
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	var info Info
	if err := json.Unmarshal(line, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	return &info, nil
}

func (c *implClient) DownloadSubtitles(ctx context.Context, url, dir string, opts Options) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	subFormat := opts.SubFormat
	if subFormat == "" {
		subFormat = "json3/vtt/best"
	}

	args := c.commonArgs(opts)
	args = append(args, "--sub-format", subFormat, "--output", outputTemplate, url)

	if _, err := c.exec.ExecuteInDir(ctx, dir, c.binary, args...); err != nil {
		return nil, c.classify(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read download dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

func (c *implClient) commonArgs(opts Options) []string {
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--no-playlist",
		"--no-warnings",
	}
	if len(opts.Languages) > 0 {
		args = append(args, "--sub-langs", strings.Join(opts.Languages, ","))
	}
	if opts.Retries > 0 {
		args = append(args, "--extractor-retries", strconv.Itoa(opts.Retries))
	}
	if opts.UserAgent != "" {
		args = append(args, "--add-header", "User-Agent:"+opts.UserAgent)
	}
	if opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	return args
}

func (c *implClient) classify(err error) error {
	if errors.Is(err, executor.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotInstalled, c.binary)
	}
	msg := err.Error()
	for _, m := range unavailableMarkers {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %s", ErrVideoUnavailable, m)
		}
	}
	return fmt.Errorf("yt-dlp: %w", err)
}
