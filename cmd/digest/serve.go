package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (/ping, /summary, /transcript, /metrics)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		a.log.Info(ctx, "========================================")
		a.log.Info(ctx, "Caption Digest API")
		a.log.Info(ctx, "========================================")
		a.log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
		a.log.Info(ctx, "Strategies: %v", a.cfg.Transcript.Strategies)
		a.log.Info(ctx, "Summarizer: %s (%s)", a.cfg.Summarizer.Provider, a.cfg.Summarizer.Model)
		a.log.Info(ctx, "Max Concurrent Requests: %d", a.cfg.Performance.MaxConcurrent)
		if a.cfg.Cache.RedisURL == "" {
			a.log.Info(ctx, "Miss cache: disabled")
		}

		return httpapi.Serve(ctx, a.cfg.Server, httpapi.New(a.proc, a.metrics, a.log), a.log)
	},
}
