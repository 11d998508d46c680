// Package videoid extracts canonical 11-character video identifiers from
// the URL shapes the platform hands out.
package videoid

import (
	"net/url"
	"regexp"
	"strings"
)

// Length is the fixed length of a platform video identifier.
const Length = 11

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Ref is a canonical video identifier.
type Ref string

func (r Ref) String() string { return string(r) }

// WatchURL returns the canonical watch page URL for the identifier.
func (r Ref) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(r)
}

// Valid reports whether s is a well-formed identifier.
func Valid(s string) bool {
	return idRe.MatchString(s)
}

type matcher struct {
	name  string
	match func(host string, u *url.URL) string
}

// matchers run in order; the first one yielding a valid identifier wins.
var matchers = []matcher{
	{name: "query", match: matchQuery},
	{name: "path", match: matchPath},
	{name: "short-link", match: matchShortLink},
}

var pathPrefixes = []string{"/embed/", "/v/", "/e/", "/shorts/", "/live/"}

// Extract parses raw into a Ref. ok is false when raw does not name a video
// on a known platform host. A bare identifier is accepted as-is.
func Extract(raw string) (ref Ref, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if Valid(raw) {
		return Ref(raw), true
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	host := canonicalHost(u.Hostname())
	if host == "" {
		return "", false
	}

	for _, m := range matchers {
		if id := m.match(host, u); Valid(id) {
			return Ref(id), true
		}
	}
	return "", false
}

func canonicalHost(host string) string {
	host = strings.ToLower(host)
	for _, prefix := range []string{"www.", "m.", "music."} {
		host = strings.TrimPrefix(host, prefix)
	}
	switch host {
	case "youtube.com", "youtube-nocookie.com", "youtu.be":
		return host
	}
	return ""
}

func matchQuery(host string, u *url.URL) string {
	if host == "youtu.be" {
		return ""
	}
	return u.Query().Get("v")
}

func matchPath(host string, u *url.URL) string {
	if host == "youtu.be" {
		return ""
	}
	for _, prefix := range pathPrefixes {
		if rest, found := strings.CutPrefix(u.Path, prefix); found {
			return firstSegment(rest)
		}
	}
	return ""
}

func matchShortLink(host string, u *url.URL) string {
	if host != "youtu.be" {
		return ""
	}
	return firstSegment(strings.TrimPrefix(u.Path, "/"))
}

func firstSegment(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}
