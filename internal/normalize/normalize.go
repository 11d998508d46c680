// Package normalize turns raw caption payloads into flat plain text.
//
// Three wire formats are understood: the structured JSON events format
// (json3), timed XML (srv1/srv3/ttml style documents) and cue-based subtitle
// text (WebVTT and SRT). Every normalizer returns either a complete cleaned
// string or an error; none of them panics on malformed input.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Format tags a caption payload with its wire format.
type Format string

const (
	FormatStructuredEvents Format = "structured-events"
	FormatTimedXML         Format = "timed-xml"
	FormatCueSubtitle      Format = "cue-subtitle"
)

var (
	ErrMalformed = errors.New("normalize: malformed payload")
	ErrNotXML    = errors.New("normalize: payload is not caption XML")
	ErrEmpty     = errors.New("normalize: payload contains no caption text")
)

// Payload is a raw caption document plus its declared format.
type Payload struct {
	Format Format
	Data   []byte
}

// Text dispatches p to the normalizer for its format.
func Text(p Payload) (string, error) {
	switch p.Format {
	case FormatStructuredEvents:
		return StructuredEvents(p.Data)
	case FormatTimedXML:
		return TimedXML(string(p.Data))
	case FormatCueSubtitle:
		return CueSubtitle(string(p.Data))
	default:
		return "", fmt.Errorf("normalize: unknown format %q", p.Format)
	}
}

// FormatFromExt maps a subtitle file extension to its wire format.
func FormatFromExt(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "json3":
		return FormatStructuredEvents, true
	case "srv1", "srv2", "srv3", "ttml", "xml":
		return FormatTimedXML, true
	case "vtt", "srt":
		return FormatCueSubtitle, true
	}
	return "", false
}

var spaceBeforePunctRe = regexp.MustCompile(`\s+([.,!?;:])`)

// Clean removes whitespace in front of sentence punctuation and collapses
// every whitespace run to a single space. Clean is idempotent.
func Clean(s string) string {
	s = spaceBeforePunctRe.ReplaceAllString(s, "$1")
	return strings.Join(strings.Fields(s), " ")
}

func finish(s string) (string, error) {
	s = Clean(s)
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}
