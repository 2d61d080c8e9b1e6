// Package config provides configuration management for the debate engine.
// Settings live in a single JSON file; anything invalid fails fast at load
// time, before any agent exists.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Defaults applied by Load for unset fields.
const (
	DefaultBaseURL        = "https://api.openai.com/v1"
	DefaultModel          = "gpt-4o-mini"
	DefaultPacingDelayMS  = 1000
	DefaultRequestTimeout = 120 // seconds
)

// Config holds all engine settings.
type Config struct {
	// API settings
	APIBaseURL string `json:"api_base_url"`
	APIKey     string `json:"api_key"`
	Provider   string `json:"provider,omitempty"` // empty = auto-detect
	Model      string `json:"model"`

	// Sampling settings (nil = provider default)
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`

	// Engine settings
	RequestTimeoutSec int `json:"request_timeout_seconds,omitempty"`
	PacingDelayMS     int `json:"pacing_delay_ms,omitempty"`
	MaxRounds         int `json:"max_rounds,omitempty"`     // 0 = unbounded
	HistoryWindow     int `json:"history_window,omitempty"` // 0 = unbounded

	// Catalog and storage locations
	PersonalitiesFile string `json:"personalities_file,omitempty"`
	TopicsFile        string `json:"topics_file,omitempty"`
	TranscriptDir     string `json:"transcript_dir,omitempty"`
	LogDir            string `json:"log_dir,omitempty"`
	LogLevel          string `json:"log_level,omitempty"`

	// Legacy credential block, read when api_key is unset.
	OpenAI *legacyOpenAI `json:"openAI,omitempty"`
}

type legacyOpenAI struct {
	Token string `json:"token"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIKey == "" && c.OpenAI != nil {
		c.APIKey = c.OpenAI.Token
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.RequestTimeoutSec == 0 {
		c.RequestTimeoutSec = DefaultRequestTimeout
	}
	if c.PacingDelayMS == 0 {
		c.PacingDelayMS = DefaultPacingDelayMS
	}
	if c.PersonalitiesFile == "" {
		c.PersonalitiesFile = "bot_personalities.json"
	}
	if c.TopicsFile == "" {
		c.TopicsFile = "debate_topics.json"
	}
	if c.TranscriptDir == "" {
		c.TranscriptDir = "transcripts"
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url %q is not a valid http(s) URL", c.APIBaseURL)
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max_rounds must not be negative")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("history_window must not be negative")
	}
	return nil
}

// RequestTimeout returns the per-request bound as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// PacingDelay returns the inter-turn delay as a duration.
func (c *Config) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelayMS) * time.Millisecond
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// CreateDefault writes a starter configuration file for the operator to
// fill in, and returns an error if the file already exists.
func CreateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s already exists", path)
	}
	cfg := &Config{APIKey: "YOUR_API_KEY_HERE"}
	cfg.applyDefaults()
	return cfg.Save(path)
}
