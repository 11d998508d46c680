package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls []string
	fn    func(rawURL string) (processor.Summary, error)
}

func (f *fakeProcessor) Transcript(ctx context.Context, rawURL string) (transcript.Transcript, error) {
	return transcript.Transcript{}, errors.New("not used")
}

func (f *fakeProcessor) Summarize(ctx context.Context, rawURL string) (processor.Summary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	f.mu.Unlock()
	return f.fn(rawURL)
}

func summaryFor(id string) processor.Summary {
	return processor.Summary{VideoID: id, Source: "timedtext", Transcript: "words", Text: "## Key points\n- one\n- two"}
}

func TestParseURLList(t *testing.T) {
	in := "# queue\nhttps://youtu.be/dQw4w9WgXcQ\n\n   \n  jNQXAC9IVRw  \n#https://skip.me\n"
	urls, err := ParseURLList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/dQw4w9WgXcQ", "jNQXAC9IVRw"}, urls)
}

func TestIsInboxFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/list.txt", true},
		{"/in/LIST.URL", true},
		{"/in/video.mp4", false},
		{"/in/.list.txt.swp", false},
		{"/in/.hidden.txt", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isInboxFile(tt.path), tt.path)
	}
}

func TestInboxHandle(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, "inbox")
	out := filepath.Join(dir, "out")
	archived := filepath.Join(dir, "archived")
	require.NoError(t, os.MkdirAll(inbox, 0755))

	path := filepath.Join(inbox, "batch.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaaaaaaaaaa\nbbbbbbbbbbb\nccccccccccc\n"), 0644))

	proc := &fakeProcessor{fn: func(u string) (processor.Summary, error) {
		switch u {
		case "bbbbbbbbbbb":
			return processor.Summary{}, &transcript.UnavailableError{VideoID: u}
		case "ccccccccccc":
			return processor.Summary{}, processor.ErrUpstream
		}
		return summaryFor(u), nil
	}}

	h := NewInbox(proc, out, archived, true, logger.NewNop())
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC) }

	err := h.Handle(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, processor.ErrUpstream)
	assert.Len(t, proc.calls, 3)

	md, err := os.ReadFile(filepath.Join(out, "aaaaaaaaaaa.md"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(md), "# aaaaaaaaaaa\n\n_2026-01-02 03:04_"))
	assert.Contains(t, string(md), "- one")
	assert.FileExists(t, filepath.Join(out, "aaaaaaaaaaa.docx"))

	assert.NoFileExists(t, filepath.Join(out, "bbbbbbbbbbb.md"))
	assert.NoFileExists(t, filepath.Join(out, "ccccccccccc.md"))

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(archived, "batch.txt"))
}

func TestInboxArchiveKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	archived := filepath.Join(dir, "archived")
	require.NoError(t, os.MkdirAll(archived, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(archived, "list.txt"), []byte("old"), 0644))

	path := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0644))

	h := NewInbox(&fakeProcessor{}, filepath.Join(dir, "out"), archived, false, nil)
	h.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, h.Handle(context.Background(), path))

	old, err := os.ReadFile(filepath.Join(archived, "list.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
	assert.FileExists(t, filepath.Join(archived, "list-20260102-030405.txt"))
}

func TestWatcherHandlesExistingAndNewFiles(t *testing.T) {
	inbox := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "early.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "ignored.mp4"), []byte("x"), 0644))

	var mu sync.Mutex
	seen := map[string]int{}
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		seen[filepath.Base(path)]++
		mu.Unlock()
		return os.Remove(path)
	}

	w, err := New(inbox, handler, logger.NewNop(), 2, WithSettleDelay(10*time.Millisecond))
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	count := func(name string) int {
		mu.Lock()
		defer mu.Unlock()
		return seen[name]
	}

	require.Eventually(t, func() bool { return count("early.txt") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "late.url"), []byte("y"), 0644))
	require.Eventually(t, func() bool { return count("late.url") == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Zero(t, count("ignored.mp4"))
	assert.Equal(t, 1, count("late.url"))
}

func TestNewMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope"), nil, logger.NewNop(), 1)
	assert.Error(t, err)
}
