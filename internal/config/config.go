package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// Binance USDT-margined futures testnet endpoints.
	DefaultBaseURL   = "https://testnet.binancefuture.com"
	DefaultStreamURL = "wss://stream.binancefuture.com/ws"

	// Fixed delay between reconnect attempts.
	DefaultReconnectWait = 2 * time.Second
)

// Config holds the connectivity-layer settings.
type Config struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	BaseURL   string `yaml:"base_url"`
	StreamURL string `yaml:"stream_url"`

	LogLevel string `yaml:"log_level"`

	// ReconnectWaitSeconds overrides the fixed backoff between stream
	// reconnect attempts.
	ReconnectWaitSeconds int `yaml:"reconnect_wait_seconds"`
}

// Load reads a YAML config file, expanding ${VAR} environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.StreamURL == "" {
		c.StreamURL = DefaultStreamURL
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}

// Validate checks that credentials are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("api_key is required")
	}
	if c.APISecret == "" {
		return errors.New("api_secret is required")
	}
	if c.ReconnectWaitSeconds < 0 {
		return errors.New("reconnect_wait_seconds must not be negative")
	}
	return nil
}

// ReconnectWait returns the configured backoff, or the default.
func (c *Config) ReconnectWait() time.Duration {
	if c.ReconnectWaitSeconds > 0 {
		return time.Duration(c.ReconnectWaitSeconds) * time.Second
	}
	return DefaultReconnectWait
}
