package normalize

import (
	"encoding/xml"
	"errors"
	"html"
	"io"
	"strings"
)

var xmlMarkers = []string{"<?xml", "<transcript", "<timedtext", "<tt"}

// TimedXML extracts caption text from a timed XML document. Leaf text comes
// from <text> elements, or from <p> elements when the document has no
// <text>. Payloads that do not start with an XML or transcript marker (for
// example an HTML error page) are rejected with ErrNotXML before parsing.
func TimedXML(payload string) (string, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(payload, "\ufeff"))
	if !hasXMLMarker(trimmed) {
		return "", ErrNotXML
	}

	leaves, err := collectLeaves(escapeBareAmpersands(trimmed))
	if err != nil {
		return "", err
	}

	texts := leaves["text"]
	if len(texts) == 0 {
		texts = leaves["p"]
	}

	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		t = decodeLeaf(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return finish(strings.Join(parts, " "))
}

func hasXMLMarker(s string) bool {
	for _, m := range xmlMarkers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

// collectLeaves gathers the character data under every <text> and <p>
// element, including text nested in inline children such as srv3 <s> spans.
func collectLeaves(doc string) (map[string][]string, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	leaves := make(map[string][]string)
	var (
		current string
		depth   int
		sb      strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Join(ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
				continue
			}
			if t.Name.Local == "text" || t.Name.Local == "p" {
				current = t.Name.Local
				depth = 1
				sb.Reset()
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				leaves[current] = append(leaves[current], sb.String())
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}
	return leaves, nil
}

func decodeLeaf(s string) string {
	s = percentDecode(s)
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

// percentDecode decodes every valid %XX escape and leaves any other '%'
// untouched, so "100% sure, caf%C3%A9" becomes "100% sure, café". Byte runs
// that do not form valid UTF-8 are replaced with U+FFFD.
func percentDecode(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// escapeBareAmpersands rewrites '&' to "&amp;" unless it already starts a
// character or entity reference. Upstream caption XML is sometimes not
// well-formed; this patches the common case. An '&' followed by text that
// happens to look like an entity (e.g. "R&D;") is left alone and decoded
// leniently by the non-strict parser.
func escapeBareAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if s[i] == '&' && !startsReference(s[i+1:]) {
			sb.WriteString("&amp;")
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func startsReference(s string) bool {
	end := strings.IndexByte(s, ';')
	if end <= 0 || end > 32 {
		return false
	}
	name := s[:end]
	if name[0] == '#' {
		digits := name[1:]
		hex := false
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits, hex = digits[1:], true
		}
		if digits == "" {
			return false
		}
		for _, r := range digits {
			if !isDigit(r, hex) {
				return false
			}
		}
		return true
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isDigit(r rune, hex bool) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	return hex && (r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F')
}
