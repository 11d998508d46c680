package normalize

import (
	"regexp"
	"strings"
)

var (
	// styleTagRe matches inline cue markup: <b>, <i>, <u>, <c.class>, <v Speaker>,
	// <span ...>, <font ...>, <ruby>, <rt>, <lang en> and their closing forms.
	styleTagRe = regexp.MustCompile(`</?(?:b|i|u|c|v|span|font|ruby|rt|lang)(?:[.\s][^>]*)?>`)
	// cueTimestampRe matches karaoke-style inline timestamps in auto captions.
	cueTimestampRe = regexp.MustCompile(`<\d{2}:\d{2}(?::\d{2})?[.,]\d{3}>`)
	cueIDRe        = regexp.MustCompile(`^\d+$`)
	cueMetaRe      = regexp.MustCompile(`^(?:(?:Kind|Language):|(?:NOTE|STYLE|REGION)(?:\s|$))`)
)

// CueSubtitle flattens a WebVTT or SRT document. Header, metadata, timing and
// sequence-number lines are dropped; inline style tags are stripped but the
// text they enclose is kept.
func CueSubtitle(payload string) (string, error) {
	lines := strings.Split(strings.TrimPrefix(payload, "\ufeff"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(line)
		switch {
		case s == "":
			continue
		case strings.HasPrefix(s, "WEBVTT"):
			continue
		case strings.Contains(s, "-->"):
			continue
		case cueIDRe.MatchString(s):
			continue
		case cueMetaRe.MatchString(s):
			continue
		}
		s = cueTimestampRe.ReplaceAllString(s, "")
		s = styleTagRe.ReplaceAllString(s, "")
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return finish(strings.Join(kept, " "))
}
