package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
	"github.com/nguyentantai21042004/caption-digest/internal/ytdlp"
)

type download struct {
	extractor ytdlp.Client
	tempRoot  string
	opts      ytdlp.Options
	delay     Delay
}

// NewDownload returns the strategy that lets yt-dlp write subtitle files to
// a per-request temporary directory and reads them back. tempRoot may be
// empty to use the system default.
func NewDownload(extractor ytdlp.Client, tempRoot string, opts ytdlp.Options, delay Delay) Strategy {
	if delay == nil {
		delay = NoDelay{}
	}
	return &download{extractor: extractor, tempRoot: tempRoot, opts: opts, delay: delay}
}

func (s *download) Name() string { return "download" }

func (s *download) Retrieve(ctx context.Context, req Request) Outcome {
	s.delay.Wait()

	dir, err := os.MkdirTemp(s.tempRoot, "captions-"+req.Ref.String()+"-*")
	if err != nil {
		return Transient(fmt.Errorf("create temp dir: %w", err))
	}
	defer os.RemoveAll(dir)

	opts := s.opts
	opts.Languages = req.Languages
	if opts.SubFormat == "" {
		opts.SubFormat = "json3/vtt/best"
	}

	files, err := s.extractor.DownloadSubtitles(ctx, req.Ref.WatchURL(), dir, opts)
	if err != nil {
		if errors.Is(err, ytdlp.ErrVideoUnavailable) {
			return NotAvailable(err.Error())
		}
		return Transient(err)
	}

	path, format, ok := ytdlp.PickDownloaded(files, req.Languages)
	if !ok {
		return NotAvailable("no subtitle file written for requested languages")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Transient(fmt.Errorf("read subtitle file: %w", err))
	}

	text, err := normalize.Text(normalize.Payload{Format: format, Data: data})
	if err != nil {
		return Transient(fmt.Errorf("normalize %s: %w", format, err))
	}
	return Success(text)
}
