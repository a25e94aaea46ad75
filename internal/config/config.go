package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Client struct {
		ID string `yaml:"id"`
	} `yaml:"client"`
	Quiz struct {
		FreeCounts       []int `yaml:"free_counts"`
		SubscribedCounts []int `yaml:"subscribed_counts"`
	} `yaml:"quiz"`
	UI struct {
		NoticeDelay string `yaml:"notice_delay"`
	} `yaml:"ui"`
	Guard struct {
		Interval  string `yaml:"interval"`
		Threshold int    `yaml:"threshold"`
	} `yaml:"guard"`
	Storage struct {
		File string `yaml:"file"`
	} `yaml:"storage"`
	Questions struct {
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"questions"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.API.BaseURL = "http://localhost:3000"
	cfg.Server.Port = "8080"
	cfg.Client.ID = "terminal"
	cfg.Quiz.FreeCounts = []int{15}
	cfg.Quiz.SubscribedCounts = []int{15, 25, 50, 100}
	cfg.UI.NoticeDelay = "3s"
	cfg.Guard.Interval = "1s"
	cfg.Guard.Threshold = 160
	cfg.Log.Level = "info"
	if home, err := os.UserHomeDir(); err == nil {
		cfg.Storage.File = filepath.Join(home, ".quiz-client", "credentials.yaml")
	}
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Quiz.FreeCounts) == 0 {
		cfg.Quiz.FreeCounts = Default().Quiz.FreeCounts
	}
	if len(cfg.Quiz.SubscribedCounts) == 0 {
		cfg.Quiz.SubscribedCounts = Default().Quiz.SubscribedCounts
	}
	if cfg.Storage.File == "" {
		cfg.Storage.File = Default().Storage.File
	}
	return cfg, nil
}

// ApplyEnv overrides values that have an environment variable.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv("QUIZ_API_URL"); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		c.Server.Port = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
