package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/metrics"
	"github.com/nguyentantai21042004/caption-digest/internal/misscache"
	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
)

// app holds everything a subcommand needs.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Registry
	proc    processor.Processor
	cache   misscache.Cache
}

// loadConfig reads --config. A missing default config.yaml falls back to
// defaults plus environment; a missing explicit path is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") && os.Getenv("CONFIG_PATH") == "" {
		return config.Default()
	}
	return config.Load(configPath)
}

// newApp wires config, logging, metrics, the miss cache, the strategy chain
// and, when withSummarizer is set, the summarization provider.
func newApp(cmd *cobra.Command, withSummarizer bool) (*app, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	reg := metrics.New()

	exec := executor.New()
	checkExtractor(ctx, exec, cfg, log)

	strategies, err := transcript.BuildStrategies(cfg.Transcript, transcript.Deps{Executor: exec})
	if err != nil {
		return nil, fmt.Errorf("build strategies: %w", err)
	}
	fetcher, err := transcript.New(strategies, transcript.Options{
		Languages: cfg.Transcript.Languages,
		Logger:    log,
		Observer:  reg,
	})
	if err != nil {
		return nil, fmt.Errorf("create orchestrator: %w", err)
	}

	cache, err := misscache.New(cfg.Cache.RedisURL, cfg.Cache.NegativeTTL)
	if err != nil {
		return nil, fmt.Errorf("create miss cache: %w", err)
	}

	var sum summarizer.Summarizer
	if withSummarizer {
		sum, err = summarizer.New(cfg.Summarizer, log)
		if err != nil {
			cache.Close()
			return nil, fmt.Errorf("create summarizer: %w", err)
		}
	}

	proc := processor.New(cfg, processor.Deps{
		Fetcher:    fetcher,
		Summarizer: sum,
		Cache:      cache,
		Metrics:    reg,
		Logger:     log,
	})

	log.Debug(ctx, "Strategies: %v, languages: %v", cfg.Transcript.Strategies, cfg.Transcript.Languages)
	return &app{cfg: cfg, log: log, metrics: reg, proc: proc, cache: cache}, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.log.Warn(context.Background(), "Close miss cache: %v", err)
	}
}

// checkExtractor warns when an extractor-backed strategy is enabled but the
// binary is not on PATH. Those strategies then report transient failures.
func checkExtractor(ctx context.Context, exec executor.Executor, cfg *config.Config, log logger.Logger) {
	for _, name := range cfg.Transcript.Strategies {
		if name != config.StrategyMediaExtractor && name != config.StrategyDownload {
			continue
		}
		if _, err := exec.LookPath(cfg.Transcript.Extractor.Binary); err != nil {
			log.Warn(ctx, "%s not found on PATH; the %s strategy will fail: %v", cfg.Transcript.Extractor.Binary, name, err)
		}
		return
	}
}
