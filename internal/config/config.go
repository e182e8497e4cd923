package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"tapnode/internal/model"
)

const DefaultBaseURL = "https://api-tapnodegame.inflectiv.ai/api"

type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Files    FilesConfig    `yaml:"files"`
	Limits   LimitsConfig   `yaml:"limits"`
	Tasks    []string       `yaml:"tasks"`
	Log      LogConfig      `yaml:"log"`
}

type ProviderConfig struct {
	BaseURL   string `yaml:"baseURL"`
	TimeoutMs int    `yaml:"timeoutMs"`
	UserAgent string `yaml:"userAgent"`
}

func (c ProviderConfig) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type FilesConfig struct {
	Tokens  string `yaml:"tokens"`
	Proxies string `yaml:"proxies"`
}

type LimitsConfig struct {
	// QPS 0 means the default; a negative QPS disables pacing.
	QPS   float64 `yaml:"qps"`
	Burst int     `yaml:"burst"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	var cfg Config
	cfg.applyDefaults()
	return cfg
}

// Load reads path. A missing file is not an error: defaults apply.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultBaseURL
	}
	if c.Files.Tokens == "" {
		c.Files.Tokens = "tokens.txt"
	}
	if c.Files.Proxies == "" {
		c.Files.Proxies = "proxies.txt"
	}
	if c.Limits.QPS == 0 {
		c.Limits.QPS = 5
	}
	if c.Limits.Burst <= 0 {
		c.Limits.Burst = 5
	}
	if len(c.Tasks) == 0 {
		c.Tasks = append([]string(nil), model.DefaultTaskIDs...)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c Config) validate() error {
	if c.Provider.BaseURL == "" {
		return errors.New("provider.baseURL is required")
	}
	for _, id := range c.Tasks {
		if id == "" {
			return errors.New("tasks must not contain empty ids")
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("log.level must be one of debug, info, warn, error")
	}
	return nil
}
