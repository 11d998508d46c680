package transcript

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/ytdlp"
)

type fakeStrategy struct {
	name   string
	out    Outcome
	panics bool

	mu    sync.Mutex
	calls int
	reqs  []Request
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Retrieve(ctx context.Context, req Request) Outcome {
	f.mu.Lock()
	f.calls++
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.panics {
		panic("boom")
	}
	return f.out
}

func (f *fakeStrategy) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLister struct {
	text  string
	err   error
	langs []string
	id    string
}

func (f *fakeLister) Transcript(ctx context.Context, videoID string, languages []string) (string, error) {
	f.id, f.langs = videoID, languages
	return f.text, f.err
}

type fakeExtractor struct {
	info    *ytdlp.Info
	infoErr error
	files   map[string]string
	dlErr   error

	url  string
	dir  string
	opts ytdlp.Options
}

func (f *fakeExtractor) ExtractInfo(ctx context.Context, url string, opts ytdlp.Options) (*ytdlp.Info, error) {
	f.url, f.opts = url, opts
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	if f.info == nil {
		return &ytdlp.Info{}, nil
	}
	return f.info, nil
}

func (f *fakeExtractor) DownloadSubtitles(ctx context.Context, url, dir string, opts ytdlp.Options) ([]string, error) {
	f.url, f.dir, f.opts = url, dir, opts
	if f.dlErr != nil {
		return nil, f.dlErr
	}
	var paths []string
	for name, content := range f.files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

type recordingObserver struct {
	mu    sync.Mutex
	kinds map[string][]string
}

func (r *recordingObserver) ObserveAttempt(strategy, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kinds == nil {
		r.kinds = make(map[string][]string)
	}
	r.kinds[strategy] = append(r.kinds[strategy], kind)
}
