package transcript

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/fetch"
	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
	"github.com/nguyentantai21042004/caption-digest/internal/ytdlp"
)

type mediaExtractor struct {
	extractor ytdlp.Client
	http      fetch.Client
	opts      ytdlp.Options
	delay     Delay
}

// NewMediaExtractor returns the strategy that asks yt-dlp for the caption
// track list and fetches the chosen track directly. opts.Languages is
// replaced by the request's languages on every call.
func NewMediaExtractor(extractor ytdlp.Client, http fetch.Client, opts ytdlp.Options, delay Delay) Strategy {
	if delay == nil {
		delay = NoDelay{}
	}
	return &mediaExtractor{extractor: extractor, http: http, opts: opts, delay: delay}
}

func (s *mediaExtractor) Name() string { return "media_extractor" }

func (s *mediaExtractor) Retrieve(ctx context.Context, req Request) Outcome {
	s.delay.Wait()

	opts := s.opts
	opts.Languages = req.Languages

	info, err := s.extractor.ExtractInfo(ctx, req.Ref.WatchURL(), opts)
	if err != nil {
		if errors.Is(err, ytdlp.ErrVideoUnavailable) {
			return NotAvailable(err.Error())
		}
		return Transient(err)
	}

	sel, ok := ytdlp.SelectTrack(info, req.Languages)
	if !ok {
		return NotAvailable("no caption track in requested languages")
	}

	body, err := s.http.Get(ctx, sel.Track.URL)
	if err != nil {
		return Transient(fmt.Errorf("fetch %s track: %w", sel.Language, err))
	}

	text, err := normalize.Text(normalize.Payload{Format: sel.Format, Data: body})
	if err != nil {
		return Transient(fmt.Errorf("normalize %s track: %w", sel.Track.Ext, err))
	}
	return Success(text)
}
