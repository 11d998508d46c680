package normalize

import (
	"encoding/json"
	"fmt"
	"strings"
)

type eventsDoc struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// StructuredEvents flattens a json3 payload: segment tokens are concatenated
// per event, bare newline tokens are dropped, and events are joined by spaces.
func StructuredEvents(payload []byte) (string, error) {
	var doc eventsDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	parts := make([]string, 0, len(doc.Events))
	for _, ev := range doc.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			if seg.UTF8 == "\n" {
				continue
			}
			sb.WriteString(seg.UTF8)
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return finish(strings.Join(parts, " "))
}
