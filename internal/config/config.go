/*
Package config loads tool configuration from TOML files with environment
variable overrides.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the EDINET analyst.
type Config struct {
	Edinet  EdinetConfig  `toml:"edinet"`
	Gemini  GeminiConfig  `toml:"gemini"`
	Search  SearchConfig  `toml:"search"`
	Email   EmailConfig   `toml:"email"`
	Logging LoggingConfig `toml:"logging"`
}

// EdinetConfig holds EDINET API configuration.
type EdinetConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	RateLimit    int    `toml:"rate_limit"`
	ListTimeout  string `toml:"list_timeout"`
	FetchTimeout string `toml:"fetch_timeout"`
}

// GetListTimeout parses and returns the listing-call timeout.
func (c *EdinetConfig) GetListTimeout() time.Duration {
	d, err := time.ParseDuration(c.ListTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetFetchTimeout parses and returns the content-fetch timeout.
func (c *EdinetConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// SearchConfig holds discovery scan defaults. Interactive flags override
// these per run.
type SearchConfig struct {
	LookbackDays      int    `toml:"lookback_days"`
	IncludeSemiAnnual bool   `toml:"include_semiannual"`
	Backoff           string `toml:"backoff"`
}

// GetBackoff parses and returns the transient-failure backoff delay.
func (c *SearchConfig) GetBackoff() time.Duration {
	d, err := time.ParseDuration(c.Backoff)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// EmailConfig holds SMTP delivery configuration.
type EmailConfig struct {
	SMTPServer string `toml:"smtp_server"`
	SMTPPort   int    `toml:"smtp_port"`
	SMTPUser   string `toml:"smtp_user"`
	SMTPPass   string `toml:"smtp_pass"`
	FromEmail  string `toml:"from_email"`
	ToEmail    string `toml:"to_email"`
}

// Enabled reports whether enough SMTP settings are present to send email.
func (c *EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Edinet: EdinetConfig{
			BaseURL:      "https://api.edinet-fsa.go.jp/api/v2",
			RateLimit:    2,
			ListTimeout:  "10s",
			FetchTimeout: "60s",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Search: SearchConfig{
			LookbackDays:      90,
			IncludeSemiAnnual: true,
			Backoff:           "500ms",
		},
		Email: EmailConfig{
			SMTPPort: 587,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("EDINET_API_KEY"); v != "" {
		config.Edinet.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("EDINETAI_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("EDINETAI_GEMINI_MODEL"); v != "" {
		config.Gemini.Model = v
	}
	if v := os.Getenv("EDINETAI_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Search.LookbackDays = n
		}
	}
	if v := os.Getenv("EDINETAI_SMTP_PASS"); v != "" {
		config.Email.SMTPPass = v
	}
}
