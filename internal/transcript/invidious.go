package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nguyentantai21042004/caption-digest/internal/fetch"
	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
)

type invidiousCaptions struct {
	Captions []invidiousTrack `json:"captions"`
}

type invidiousTrack struct {
	Label        string `json:"label"`
	LanguageCode string `json:"languageCode"`
	URL          string `json:"url"`
}

func (t invidiousTrack) automatic() bool {
	return strings.Contains(strings.ToLower(t.Label), "auto-generated")
}

type invidious struct {
	instances []string
	http      fetch.Client
	delay     Delay
}

// NewInvidious returns the strategy that reads captions through public
// Invidious instances, trying them in order until one answers.
func NewInvidious(instances []string, http fetch.Client, delay Delay) Strategy {
	if delay == nil {
		delay = NoDelay{}
	}
	trimmed := make([]string, 0, len(instances))
	for _, inst := range instances {
		if inst = strings.TrimRight(strings.TrimSpace(inst), "/"); inst != "" {
			trimmed = append(trimmed, inst)
		}
	}
	return &invidious{instances: trimmed, http: http, delay: delay}
}

func (s *invidious) Name() string { return "invidious" }

func (s *invidious) Retrieve(ctx context.Context, req Request) Outcome {
	if len(s.instances) == 0 {
		return NotAvailable("no invidious instances configured")
	}
	s.delay.Wait()

	var errs []error
	for _, inst := range s.instances {
		if err := ctx.Err(); err != nil {
			return Transient(err)
		}

		track, found, err := s.listTracks(ctx, inst, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inst, err))
			continue
		}
		if !found {
			// Instances proxy the same upstream; one definitive answer is enough.
			return NotAvailable("no caption track in requested languages")
		}

		body, err := s.http.Get(ctx, resolve(inst, track.URL))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inst, err))
			continue
		}
		text, err := normalize.CueSubtitle(string(body))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", inst, err))
			continue
		}
		return Success(text)
	}
	return Transient(errors.Join(errs...))
}

func (s *invidious) listTracks(ctx context.Context, inst string, req Request) (invidiousTrack, bool, error) {
	body, err := s.http.Get(ctx, inst+"/api/v1/captions/"+url.PathEscape(req.Ref.String()))
	if err != nil {
		return invidiousTrack{}, false, err
	}
	var doc invidiousCaptions
	if err := json.Unmarshal(body, &doc); err != nil {
		return invidiousTrack{}, false, fmt.Errorf("decode caption list: %w", err)
	}
	track, ok := pickInvidiousTrack(doc.Captions, req.Languages)
	return track, ok, nil
}

// pickInvidiousTrack applies manual-before-automatic, then language order.
func pickInvidiousTrack(tracks []invidiousTrack, langs []string) (invidiousTrack, bool) {
	for _, automatic := range []bool{false, true} {
		for _, lang := range langs {
			for _, t := range tracks {
				if t.URL != "" && t.automatic() == automatic && strings.EqualFold(t.LanguageCode, lang) {
					return t, true
				}
			}
		}
	}
	return invidiousTrack{}, false
}

func resolve(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return base + "/" + strings.TrimLeft(ref, "/")
}
