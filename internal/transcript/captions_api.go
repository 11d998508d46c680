package transcript

import (
	"context"
	"regexp"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_formatters"

	"github.com/nguyentantai21042004/caption-digest/internal/normalize"
)

// TranscriptLister looks up a transcript through a caption-listing service.
type TranscriptLister interface {
	Transcript(ctx context.Context, videoID string, languages []string) (string, error)
}

// notFoundMarkers are phrases of lister errors that mean the video has no
// usable transcript, as opposed to a network or parse failure.
var notFoundMarkers = []string{
	"no transcript",
	"could not find transcript",
	"transcripts disabled",
	"transcripts are disabled",
	"subtitles are disabled",
	"no captions",
	"video unavailable",
	"video is unavailable",
}

// httpStatusRe spots HTTP status failures ("503 Service Unavailable",
// "status code 404"), which are transient whatever else the message says.
var httpStatusRe = regexp.MustCompile(`(?i)\b(?:status(?: code)?:? *[45]\d\d|[45]\d\d [a-z]|http [45]\d\d)`)

type captionsAPI struct {
	lister TranscriptLister
	delay  Delay
}

// NewCaptionsAPI returns the strategy backed by the caption-listing service.
func NewCaptionsAPI(lister TranscriptLister, delay Delay) Strategy {
	if delay == nil {
		delay = NoDelay{}
	}
	return &captionsAPI{lister: lister, delay: delay}
}

func (s *captionsAPI) Name() string { return "captions_api" }

func (s *captionsAPI) Retrieve(ctx context.Context, req Request) Outcome {
	s.delay.Wait()

	text, err := s.lister.Transcript(ctx, req.Ref.String(), req.Languages)
	if err != nil {
		if isNotFound(err) {
			return NotAvailable(err.Error())
		}
		return Transient(err)
	}
	text = normalize.Clean(text)
	if text == "" {
		return NotAvailable("empty transcript")
	}
	return Success(text)
}

func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	if httpStatusRe.MatchString(msg) {
		return false
	}
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

type formattedTranscriptGetter interface {
	GetFormattedTranscripts(videoID string, languages []string, preserveFormatting bool) (string, error)
}

type ytTranscriptLister struct {
	client formattedTranscriptGetter
}

// NewYTTranscriptLister builds a lister whose formatter emits bare caption
// text, one line per segment, without timestamps or language codes.
func NewYTTranscriptLister() TranscriptLister {
	formatter := yt_transcript_formatters.NewTextFormatter(
		yt_transcript_formatters.WithTimestamps(false),
		yt_transcript_formatters.WithLanguageCode(false),
	)
	return &ytTranscriptLister{
		client: yt_transcript.NewClient(yt_transcript.WithFormatter(formatter)),
	}
}

// Transcript runs the blocking client call in a goroutine so ctx can abandon
// it. The client applies its own 30s timeout.
func (l *ytTranscriptLister) Transcript(ctx context.Context, videoID string, languages []string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := l.client.GetFormattedTranscripts(videoID, languages, false)
		ch <- result{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.text, res.err
	}
}
