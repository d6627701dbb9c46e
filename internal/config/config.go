package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"kviz/internal/domain"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Session struct {
		DurationSeconds int    `yaml:"duration_seconds"`
		Questions       int    `yaml:"questions"`
		Category        string `yaml:"category"`
		TTL             string `yaml:"ttl"`
	} `yaml:"session"`
	Source struct {
		JSONLPath string `yaml:"jsonl_path"`
		JSONLURL  string `yaml:"jsonl_url"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"source"`
	Bank struct {
		TTL string `yaml:"ttl"`
	} `yaml:"bank"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Log struct {
		Verbose bool `yaml:"verbose"`
	} `yaml:"log"`
}

// Load reads YAML config from path. A missing file yields the zero config, which
// every consumer treats as defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
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
	return cfg, nil
}

// SessionConfig returns the clamped session settings of the file.
func (c Config) SessionConfig() domain.SessionConfig {
	perQuestion := domain.DefaultPerQuestion
	if c.Session.DurationSeconds > 0 {
		perQuestion = time.Duration(c.Session.DurationSeconds) * time.Second
	}
	questions := domain.DefaultQuestions
	if c.Session.Questions > 0 {
		questions = c.Session.Questions
	}
	return domain.NewSessionConfig(perQuestion, questions, c.Session.Category)
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
