package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file, applies environment overrides and validates the result.
// Values from a .env file in the working directory are loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if env := os.Getenv("CONFIG_PATH"); env != "" {
		path = env
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// Default returns a validated config built only from defaults and the environment.
func Default() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	provider := cfg.Summarizer.Provider
	if provider == "" {
		provider = ProviderGemini
	}
	if len(cfg.Summarizer.APIKeys) > 0 {
		return
	}

	var keys []string
	switch provider {
	case ProviderGemini:
		keys = splitList(os.Getenv("GEMINI_API_KEYS"))
		if len(keys) == 0 {
			keys = splitList(os.Getenv("GEMINI_API_KEY"))
		}
	case ProviderAnthropic:
		keys = splitList(os.Getenv("ANTHROPIC_API_KEY"))
	case ProviderHuggingFace:
		keys = splitList(os.Getenv("HF_TOKEN"))
	}
	cfg.Summarizer.APIKeys = keys
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
