package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/watcher"
)

var watchDocx bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Summarize URL lists dropped into the inbox directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if err := ensureDirectories(a.cfg); err != nil {
			return err
		}

		inbox := watcher.NewInbox(a.proc, a.cfg.Paths.Output, a.cfg.Paths.Archived, watchDocx, a.log)
		w, err := watcher.New(a.cfg.Paths.Inbox, inbox.Handle, a.log, a.cfg.Performance.MaxConcurrent)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		defer w.Stop()

		a.log.Info(ctx, "========================================")
		a.log.Info(ctx, "Caption Digest inbox is ready!")
		a.log.Info(ctx, "Monitoring: %s", a.cfg.Paths.Inbox)
		a.log.Info(ctx, "Output: %s", a.cfg.Paths.Output)
		a.log.Info(ctx, "Archive: %s", a.cfg.Paths.Archived)
		a.log.Info(ctx, "Drop .txt or .url files with one URL per line")
		a.log.Info(ctx, "Press Ctrl+C to stop")
		a.log.Info(ctx, "========================================")

		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watcher: %w", err)
		}
		a.log.Info(context.Background(), "Caption Digest inbox stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchDocx, "docx", true, "Write a .docx next to every .md summary")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Output,
		cfg.Paths.Archived,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
