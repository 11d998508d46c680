package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/caption-digest/internal/fetch"
	"github.com/nguyentantai21042004/caption-digest/internal/videoid"
	"github.com/nguyentantai21042004/caption-digest/internal/ytdlp"
)

var testLangs = []string{"en", "en-US", "en-GB", "en-IN"}

func testRequest() Request {
	return Request{
		URL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Ref:       videoid.Ref("dQw4w9WgXcQ"),
		Languages: testLangs,
	}
}

const sampleXML = `<?xml version="1.0" encoding="utf-8" ?><transcript>` +
	`<text start="0" dur="1">foo</text><text start="1" dur="1">bar .</text></transcript>`

const sampleVTT = "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\n<c>foo</c> bar\n"

func TestCaptionsAPI(t *testing.T) {
	tests := []struct {
		name     string
		lister   *fakeLister
		wantKind Kind
		wantText string
	}{
		{
			name:     "success is cleaned",
			lister:   &fakeLister{text: "foo\nbar  ,\nbaz"},
			wantKind: KindSuccess,
			wantText: "foo bar, baz",
		},
		{
			name:     "transcripts disabled",
			lister:   &fakeLister{err: errors.New("Subtitles are disabled for this video")},
			wantKind: KindNotAvailable,
		},
		{
			name:     "language missing",
			lister:   &fakeLister{err: errors.New("could not find transcript for languages [en]")},
			wantKind: KindNotAvailable,
		},
		{
			name:     "service unavailable",
			lister:   &fakeLister{err: errors.New("failed to fetch video page: 503 Service Unavailable")},
			wantKind: KindTransient,
		},
		{
			name:     "proxy not found",
			lister:   &fakeLister{err: errors.New("unexpected status code: 404 (page not found)")},
			wantKind: KindTransient,
		},
		{
			name:     "rate limited",
			lister:   &fakeLister{err: errors.New("HTTP 429 Too Many Requests")},
			wantKind: KindTransient,
		},
		{
			name:     "network failure",
			lister:   &fakeLister{err: errors.New("dial tcp: connection refused")},
			wantKind: KindTransient,
		},
		{
			name:     "blank transcript",
			lister:   &fakeLister{text: " \n "},
			wantKind: KindNotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCaptionsAPI(tt.lister, NoDelay{})
			out := s.Retrieve(context.Background(), testRequest())
			assert.Equal(t, tt.wantKind, out.Kind, out.Reason)
			assert.Equal(t, tt.wantText, out.Text)
			assert.Equal(t, "dQw4w9WgXcQ", tt.lister.id)
			assert.Equal(t, testLangs, tt.lister.langs)
		})
	}
}

func TestMediaExtractor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/track.xml":
			_, _ = w.Write([]byte(sampleXML))
		case "/track.vtt":
			_, _ = w.Write([]byte(sampleVTT))
		case "/html":
			_, _ = w.Write([]byte("<!DOCTYPE html><html></html>"))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()
	client := fetch.New(fetch.Options{HTTPClient: server.Client()})

	info := func(ext, path string, automatic bool) *ytdlp.Info {
		tracks := map[string][]ytdlp.Track{"en": {{Ext: ext, URL: server.URL + path}}}
		if automatic {
			return &ytdlp.Info{AutomaticCaptions: tracks}
		}
		return &ytdlp.Info{Subtitles: tracks}
	}

	tests := []struct {
		name     string
		ext      *fakeExtractor
		wantKind Kind
		wantText string
	}{
		{"manual xml track", &fakeExtractor{info: info("srv3", "/track.xml", false)}, KindSuccess, "foo bar."},
		{"automatic vtt track", &fakeExtractor{info: info("vtt", "/track.vtt", true)}, KindSuccess, "foo bar"},
		{"no track", &fakeExtractor{info: &ytdlp.Info{}}, KindNotAvailable, ""},
		{"video unavailable", &fakeExtractor{infoErr: fmt.Errorf("%w: Private video", ytdlp.ErrVideoUnavailable)}, KindNotAvailable, ""},
		{"extractor failure", &fakeExtractor{infoErr: errors.New("exit status 1")}, KindTransient, ""},
		{"track fetch forbidden", &fakeExtractor{info: info("srv3", "/forbidden", false)}, KindTransient, ""},
		{"html served as xml", &fakeExtractor{info: info("srv3", "/html", false)}, KindTransient, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMediaExtractor(tt.ext, client, ytdlp.Options{UserAgent: "UA", Retries: 2}, NoDelay{})
			out := s.Retrieve(context.Background(), testRequest())
			assert.Equal(t, tt.wantKind, out.Kind, out.Reason)
			assert.Equal(t, tt.wantText, out.Text)
			assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", tt.ext.url)
			assert.Equal(t, testLangs, tt.ext.opts.Languages)
			assert.Equal(t, 2, tt.ext.opts.Retries)
		})
	}
}

func TestMediaExtractorOversizedTrack(t *testing.T) {
	var vtt strings.Builder
	vtt.WriteString("WEBVTT\n\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&vtt, "00:00:%02d.000 --> 00:00:%02d.500\nline %d of the talk\n\n", i, i, i)
	}
	vtt.WriteString("00:01:00.000 --> 00:01:01.000\nTHE END\n")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(vtt.String()))
	}))
	defer server.Close()
	client := fetch.New(fetch.Options{HTTPClient: server.Client(), MaxBody: 512})

	ext := &fakeExtractor{info: &ytdlp.Info{Subtitles: map[string][]ytdlp.Track{
		"en": {{Ext: "vtt", URL: server.URL + "/track.vtt"}},
	}}}
	out := NewMediaExtractor(ext, client, ytdlp.Options{}, NoDelay{}).Retrieve(context.Background(), testRequest())

	assert.Equal(t, KindTransient, out.Kind)
	assert.Empty(t, out.Text)
	assert.Contains(t, out.Reason, "too large")
}

type timedTextServer struct {
	mu       sync.Mutex
	requests []string
	serve    func(lang, kind string) (int, string)
}

func (s *timedTextServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	s.requests = append(s.requests, q.Get("lang")+"/"+q.Get("kind"))
	s.mu.Unlock()
	if q.Get("v") != "dQw4w9WgXcQ" || q.Get("fmt") != "srv3" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	status, body := s.serve(q.Get("lang"), q.Get("kind"))
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestTimedText(t *testing.T) {
	tests := []struct {
		name      string
		serve     func(lang, kind string) (int, string)
		wantKind  Kind
		wantText  string
		wantFirst []string
	}{
		{
			name: "manual track in later language",
			serve: func(lang, kind string) (int, string) {
				if lang == "en-GB" && kind == "" {
					return http.StatusOK, sampleXML
				}
				return http.StatusOK, ""
			},
			wantKind:  KindSuccess,
			wantText:  "foo bar.",
			wantFirst: []string{"en/", "en-US/", "en-GB/"},
		},
		{
			name: "manual tried in every language before asr",
			serve: func(lang, kind string) (int, string) {
				if lang == "en" && kind == "asr" {
					return http.StatusOK, sampleXML
				}
				return http.StatusOK, ""
			},
			wantKind:  KindSuccess,
			wantText:  "foo bar.",
			wantFirst: []string{"en/", "en-US/", "en-GB/", "en-IN/", "en/asr"},
		},
		{
			name:     "no track anywhere",
			serve:    func(string, string) (int, string) { return http.StatusOK, "" },
			wantKind: KindNotAvailable,
		},
		{
			name:     "empty transcript document",
			serve:    func(string, string) (int, string) { return http.StatusOK, `<?xml version="1.0"?><transcript></transcript>` },
			wantKind: KindNotAvailable,
		},
		{
			name:     "rate limited",
			serve:    func(string, string) (int, string) { return http.StatusTooManyRequests, "" },
			wantKind: KindTransient,
		},
		{
			name:     "html error page",
			serve:    func(string, string) (int, string) { return http.StatusOK, "<html><body>sorry</body></html>" },
			wantKind: KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &timedTextServer{serve: tt.serve}
			server := httptest.NewServer(handler)
			defer server.Close()

			s := NewTimedText(server.URL+"/api/timedtext", "srv3", fetch.New(fetch.Options{HTTPClient: server.Client()}), NoDelay{})
			out := s.Retrieve(context.Background(), testRequest())
			assert.Equal(t, tt.wantKind, out.Kind, out.Reason)
			assert.Equal(t, tt.wantText, out.Text)
			if tt.wantFirst != nil {
				assert.Equal(t, tt.wantFirst, handler.requests)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		ext      *fakeExtractor
		wantKind Kind
		wantText string
	}{
		{
			name: "json3 file",
			ext: &fakeExtractor{files: map[string]string{
				"dQw4w9WgXcQ.en.json3": `{"events":[{"segs":[{"utf8":"foo"},{"utf8":" bar"}]}]}`,
			}},
			wantKind: KindSuccess,
			wantText: "foo bar",
		},
		{
			name: "vtt fallback",
			ext: &fakeExtractor{files: map[string]string{
				"dQw4w9WgXcQ.en-US.vtt": sampleVTT,
			}},
			wantKind: KindSuccess,
			wantText: "foo bar",
		},
		{
			name: "only foreign files",
			ext: &fakeExtractor{files: map[string]string{
				"dQw4w9WgXcQ.de.json3": `{"events":[{"segs":[{"utf8":"hallo"}]}]}`,
			}},
			wantKind: KindNotAvailable,
		},
		{
			name: "corrupt file",
			ext: &fakeExtractor{files: map[string]string{
				"dQw4w9WgXcQ.en.json3": `{"events":`,
			}},
			wantKind: KindTransient,
		},
		{
			name:     "extractor failure",
			ext:      &fakeExtractor{dlErr: errors.New("exit status 1")},
			wantKind: KindTransient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDownload(tt.ext, root, ytdlp.Options{}, NoDelay{})
			out := s.Retrieve(context.Background(), testRequest())
			assert.Equal(t, tt.wantKind, out.Kind, out.Reason)
			assert.Equal(t, tt.wantText, out.Text)

			require.NotEmpty(t, tt.ext.dir)
			assert.True(t, strings.HasPrefix(tt.ext.dir, root))
			_, err := os.Stat(tt.ext.dir)
			assert.True(t, os.IsNotExist(err), "temp dir %s left behind", tt.ext.dir)
			assert.Equal(t, "json3/vtt/best", tt.ext.opts.SubFormat)
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func invidiousHandler(list string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/captions/dQw4w9WgXcQ", func(w http.ResponseWriter, r *http.Request) {
		if label := r.URL.Query().Get("label"); label != "" {
			_, _ = w.Write([]byte("WEBVTT\n\n00:00:00.000 --> 00:00:01.000\n" + label + " text\n"))
			return
		}
		_, _ = w.Write([]byte(list))
	})
	return mux
}

func TestInvidious(t *testing.T) {
	list := `{"captions":[
		{"label":"English (auto-generated)","languageCode":"en","url":"/api/v1/captions/dQw4w9WgXcQ?label=auto"},
		{"label":"English (United Kingdom)","languageCode":"en-GB","url":"/api/v1/captions/dQw4w9WgXcQ?label=manual"}
	]}`

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	good := httptest.NewServer(invidiousHandler(list))
	defer good.Close()
	foreign := httptest.NewServer(invidiousHandler(`{"captions":[{"label":"Deutsch","languageCode":"de","url":"/x"}]}`))
	defer foreign.Close()

	client := fetch.New(fetch.Options{})

	t.Run("falls through broken instance and prefers manual", func(t *testing.T) {
		s := NewInvidious([]string{broken.URL, good.URL + "/"}, client, NoDelay{})
		out := s.Retrieve(context.Background(), testRequest())
		require.Equal(t, KindSuccess, out.Kind, out.Reason)
		assert.Equal(t, "manual text", out.Text)
	})

	t.Run("no english track", func(t *testing.T) {
		s := NewInvidious([]string{foreign.URL}, client, NoDelay{})
		out := s.Retrieve(context.Background(), testRequest())
		assert.Equal(t, KindNotAvailable, out.Kind)
	})

	t.Run("every instance broken", func(t *testing.T) {
		s := NewInvidious([]string{broken.URL}, client, NoDelay{})
		out := s.Retrieve(context.Background(), testRequest())
		assert.Equal(t, KindTransient, out.Kind)
		assert.Contains(t, out.Reason, "502")
	})

	t.Run("no instances", func(t *testing.T) {
		out := NewInvidious(nil, client, NoDelay{}).Retrieve(context.Background(), testRequest())
		assert.Equal(t, KindNotAvailable, out.Kind)
	})
}

func TestPickInvidiousTrack(t *testing.T) {
	tracks := []invidiousTrack{
		{Label: "English (auto-generated)", LanguageCode: "en", URL: "a"},
		{Label: "English", LanguageCode: "en-IN", URL: "m"},
	}
	got, ok := pickInvidiousTrack(tracks, testLangs)
	require.True(t, ok)
	assert.Equal(t, "m", got.URL)
}
