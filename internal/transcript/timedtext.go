package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/nguyentantai21042004/caption-digest/internal/fetch"
	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
)

type timedText struct {
	endpoint string
	format   string
	http     fetch.Client
	delay    Delay
}

// NewTimedText returns the strategy that calls the platform's timed-text
// endpoint directly with v, lang and fmt query parameters.
func NewTimedText(endpoint, format string, http fetch.Client, delay Delay) Strategy {
	if format == "" {
		format = "srv3"
	}
	if delay == nil {
		delay = NoDelay{}
	}
	return &timedText{endpoint: endpoint, format: format, http: http, delay: delay}
}

func (s *timedText) Name() string { return "timedtext" }

// Retrieve asks for manual tracks in every requested language first, then
// for auto-generated (kind=asr) tracks. The endpoint answers 200 with an
// empty body when a track does not exist.
func (s *timedText) Retrieve(ctx context.Context, req Request) Outcome {
	s.delay.Wait()

	var lastErr error
	for _, kind := range []string{"", "asr"} {
		for _, lang := range req.Languages {
			if err := ctx.Err(); err != nil {
				return Transient(err)
			}

			body, err := s.http.Get(ctx, s.trackURL(req.Ref.String(), lang, kind))
			if err != nil {
				lastErr = err
				continue
			}
			if len(body) == 0 {
				continue
			}

			text, err := normalize.TimedXML(string(body))
			if errors.Is(err, normalize.ErrEmpty) {
				continue
			}
			if err != nil {
				lastErr = fmt.Errorf("%s: %w", lang, err)
				continue
			}
			return Success(text)
		}
	}

	if lastErr != nil {
		return Transient(lastErr)
	}
	return NotAvailable("timed-text endpoint returned no track")
}

func (s *timedText) trackURL(videoID, lang, kind string) string {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", lang)
	q.Set("fmt", s.format)
	if kind != "" {
		q.Set("kind", kind)
	}
	return s.endpoint + "?" + q.Encode()
}
