package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Cache       CacheConfig       `yaml:"cache"`
	Paths       PathsConfig       `yaml:"paths"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TranscriptConfig struct {
	Languages          []string              `yaml:"languages"`
	Strategies         []string              `yaml:"strategies"`
	UserAgent          string                `yaml:"user_agent"`
	HTTPTimeout        time.Duration         `yaml:"http_timeout"`
	Extractor          ExtractorConfig       `yaml:"extractor"`
	TimedText          TimedTextConfig       `yaml:"timedtext"`
	Delays             map[string]DelayRange `yaml:"delays"`
	TempDir            string                `yaml:"temp_dir"`
	InvidiousInstances []string              `yaml:"invidious_instances"`
}

type ExtractorConfig struct {
	Binary      string        `yaml:"binary"`
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	CookiesFile string        `yaml:"cookies_file"`
}

type TimedTextConfig struct {
	Endpoint string `yaml:"endpoint"`
	Format   string `yaml:"format"`
}

// DelayRange bounds a randomized courtesy delay. A zero range disables it.
type DelayRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

type SummarizerConfig struct {
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	APIKeys            []string      `yaml:"api_keys"`
	MaxTokens          int           `yaml:"max_tokens"`
	Temperature        float64       `yaml:"temperature"`
	MaxTranscriptChars int           `yaml:"max_transcript_chars"`
	Endpoint           string        `yaml:"endpoint"`
	Timeout            time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	RedisURL    string        `yaml:"redis_url"`
	NegativeTTL time.Duration `yaml:"negative_ttl"`
}

type PathsConfig struct {
	Inbox    string `yaml:"inbox"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Strategy names accepted in transcript.strategies.
const (
	StrategyCaptionsAPI    = "captions_api"
	StrategyMediaExtractor = "media_extractor"
	StrategyTimedText      = "timedtext"
	StrategyDownload       = "download"
	StrategyInvidious      = "invidious"
)

// Summarizer providers accepted in summarizer.provider.
const (
	ProviderGemini      = "gemini"
	ProviderAnthropic   = "anthropic"
	ProviderHuggingFace = "huggingface"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36"

var knownStrategies = map[string]bool{
	StrategyCaptionsAPI:    true,
	StrategyMediaExtractor: true,
	StrategyTimedText:      true,
	StrategyDownload:       true,
	StrategyInvidious:      true,
}

func (c *Config) Validate() error {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 180 * time.Second
	}

	if err := c.Transcript.validate(); err != nil {
		return err
	}
	if err := c.Summarizer.validate(); err != nil {
		return err
	}

	if c.Cache.NegativeTTL == 0 {
		c.Cache.NegativeTTL = 30 * time.Minute
	}
	if c.Cache.NegativeTTL < 0 {
		return fmt.Errorf("cache.negative_ttl must not be negative")
	}

	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/summaries"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 4
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must be positive")
	}

	return nil
}

func (t *TranscriptConfig) validate() error {
	if len(t.Languages) == 0 {
		t.Languages = []string{"en", "en-US", "en-GB", "en-IN"}
	}
	if len(t.Strategies) == 0 {
		t.Strategies = []string{StrategyCaptionsAPI, StrategyMediaExtractor, StrategyTimedText, StrategyDownload}
		if len(t.InvidiousInstances) > 0 {
			t.Strategies = append(t.Strategies, StrategyInvidious)
		}
	}
	seen := make(map[string]bool, len(t.Strategies))
	for _, s := range t.Strategies {
		if !knownStrategies[s] {
			return fmt.Errorf("transcript.strategies: unknown strategy %q", s)
		}
		if seen[s] {
			return fmt.Errorf("transcript.strategies: %q listed twice", s)
		}
		seen[s] = true
	}
	if seen[StrategyInvidious] && len(t.InvidiousInstances) == 0 {
		return fmt.Errorf("transcript.invidious_instances is required when the invidious strategy is enabled")
	}

	if t.UserAgent == "" {
		t.UserAgent = DefaultUserAgent
	}
	if t.HTTPTimeout == 0 {
		t.HTTPTimeout = 10 * time.Second
	}
	if t.Extractor.Binary == "" {
		t.Extractor.Binary = "yt-dlp"
	}
	if t.Extractor.Timeout == 0 {
		t.Extractor.Timeout = 30 * time.Second
	}
	if t.Extractor.Retries == 0 {
		t.Extractor.Retries = 2
	}
	if t.TimedText.Endpoint == "" {
		t.TimedText.Endpoint = "https://www.youtube.com/api/timedtext"
	}
	if t.TimedText.Format == "" {
		t.TimedText.Format = "srv3"
	}

	if t.Delays == nil {
		t.Delays = map[string]DelayRange{
			StrategyCaptionsAPI:    {Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond},
			StrategyMediaExtractor: {Min: 2 * time.Second, Max: 4 * time.Second},
			StrategyTimedText:      {Min: 1 * time.Second, Max: 2 * time.Second},
		}
	}
	for name, d := range t.Delays {
		if d.Min < 0 || d.Max < d.Min {
			return fmt.Errorf("transcript.delays.%s: invalid range %s..%s", name, d.Min, d.Max)
		}
	}
	return nil
}

func (s *SummarizerConfig) validate() error {
	if s.Provider == "" {
		s.Provider = ProviderGemini
	}
	switch s.Provider {
	case ProviderGemini:
		if s.Model == "" {
			s.Model = "gemini-2.5-flash"
		}
	case ProviderAnthropic:
		if s.Model == "" {
			s.Model = "claude-sonnet-4-20250514"
		}
	case ProviderHuggingFace:
		if s.Endpoint == "" {
			s.Endpoint = "https://api-inference.huggingface.co/models/mistralai/Mixtral-8x7B-Instruct-v0.1"
		}
	default:
		return fmt.Errorf("summarizer.provider: unknown provider %q", s.Provider)
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = 1024
	}
	if s.MaxTranscriptChars == 0 {
		s.MaxTranscriptChars = 60000
	}
	if s.Timeout == 0 {
		s.Timeout = 60 * time.Second
	}
	return nil
}
