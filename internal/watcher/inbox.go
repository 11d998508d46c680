package watcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Inbox turns URL list files into summary documents. Each handled file is
// moved to the archive directory so it is not processed twice.
type Inbox struct {
	proc        processor.Processor
	outputDir   string
	archivedDir string
	docx        bool
	logger      logger.Logger
	now         func() time.Time
}

// NewInbox creates an Inbox writing summaries to outputDir. When docx is set
// a .docx rendition is written next to every .md file.
func NewInbox(proc processor.Processor, outputDir, archivedDir string, docx bool, log logger.Logger) *Inbox {
	if log == nil {
		log = logger.NewNop()
	}
	return &Inbox{
		proc:        proc,
		outputDir:   outputDir,
		archivedDir: archivedDir,
		docx:        docx,
		logger:      log,
		now:         time.Now,
	}
}

// Handle processes every URL in the file at path, then archives the file.
// It matches FileHandler.
func (h *Inbox) Handle(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open inbox file: %w", err)
	}
	urls, err := ParseURLList(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("read inbox file %s: %w", path, err)
	}

	h.logger.Info(ctx, "Processing %d URL(s) from %s", len(urls), filepath.Base(path))

	var errs []error
	successCount, skipCount := 0, 0
	for _, u := range urls {
		if ctx.Err() != nil {
			// Leave the file in place so the next run picks it up again.
			return ctx.Err()
		}
		sum, err := h.proc.Summarize(ctx, u)
		switch {
		case err == nil:
		case errors.Is(err, transcript.ErrUnavailable):
			h.logger.Warn(ctx, "[SKIP] %s: no captions found", u)
			skipCount++
			continue
		default:
			h.logger.Error(ctx, "Failed to summarize %s: %v", u, err)
			errs = append(errs, fmt.Errorf("%s: %w", u, err))
			continue
		}

		mdPath, err := h.writeSummary(sum, u)
		if err != nil {
			h.logger.Error(ctx, "Failed to write summary for %s: %v", sum.VideoID, err)
			errs = append(errs, err)
			continue
		}
		h.logger.Info(ctx, "[DONE] %s -> %s", sum.VideoID, mdPath)
		successCount++
	}

	h.logger.Info(ctx, "Inbox file complete: %d success, %d without captions, %d failed",
		successCount, skipCount, len(errs))

	if err := h.archive(ctx, path); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (h *Inbox) writeSummary(sum processor.Summary, sourceURL string) (string, error) {
	if err := os.MkdirAll(h.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	md := fmt.Sprintf("# %s\n\n_%s_ · %s\n\n%s\n",
		sum.VideoID,
		h.now().Format("2006-01-02 15:04"),
		sourceURL,
		strings.TrimSpace(sum.Text),
	)

	mdPath := filepath.Join(h.outputDir, sum.VideoID+".md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", mdPath, err)
	}

	if h.docx {
		docxPath := filepath.Join(h.outputDir, sum.VideoID+".docx")
		if err := summarizer.ExportDocx(sum.VideoID, sum.Text, docxPath); err != nil {
			return "", fmt.Errorf("write %s: %w", docxPath, err)
		}
	}
	return mdPath, nil
}

// archive moves a handled inbox file out of the watched directory. An
// existing archive entry with the same name is kept by suffixing a timestamp.
func (h *Inbox) archive(ctx context.Context, path string) error {
	if err := os.MkdirAll(h.archivedDir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	name := filepath.Base(path)
	destPath := filepath.Join(h.archivedDir, name)
	if _, err := os.Stat(destPath); err == nil {
		ext := filepath.Ext(name)
		destPath = filepath.Join(h.archivedDir,
			fmt.Sprintf("%s-%s%s", strings.TrimSuffix(name, ext), h.now().Format("20060102-150405"), ext))
	}

	h.logger.Info(ctx, "Archiving inbox file: %s -> %s", path, destPath)
	if err := os.Rename(path, destPath); err != nil {
		return fmt.Errorf("archive inbox file: %w", err)
	}
	return nil
}

// ParseURLList reads one URL (or bare video ID) per line. Blank lines and
// lines starting with # are skipped.
func ParseURLList(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, sc.Err()
}
