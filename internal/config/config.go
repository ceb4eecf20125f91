package config

import (
	"strings"
	"time"

	"ghost-publisher/internal/ghost"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// GhostConfig holds the Ghost Admin API connection settings.
type GhostConfig struct {
	SiteURL     string `mapstructure:"site_url"`      // e.g., https://blog.example.com
	AdminAPIKey string `mapstructure:"admin_api_key"` // "id:secret" from the Ghost integrations page
	Timeout     string `mapstructure:"timeout"`       // duration string, e.g., "20s"
	Format      string `mapstructure:"format"`        // mobiledoc or html
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PublishConfig controls the publish journal.
type PublishConfig struct {
	LockTTL     string `mapstructure:"lock_ttl"` // duration string, e.g., "2m"
	HistorySize int    `mapstructure:"history_size"`
}

// OpenAIConfig enables excerpt suggestions.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // optional
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Ghost   GhostConfig   `mapstructure:"ghost"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Publish PublishConfig `mapstructure:"publish"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	c.Ghost.SiteURL = strings.TrimRight(strings.TrimSpace(c.Ghost.SiteURL), "/")
	c.Ghost.AdminAPIKey = strings.TrimSpace(c.Ghost.AdminAPIKey)
	if c.Ghost.Timeout == "" {
		c.Ghost.Timeout = "20s"
	}
	if c.Ghost.Format == "" {
		c.Ghost.Format = ghost.FormatMobiledoc
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Publish.LockTTL == "" {
		c.Publish.LockTTL = "2m"
	}
	if c.Publish.HistorySize == 0 {
		c.Publish.HistorySize = 20
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}

// Credentials returns the Ghost credentials for a single action.
func (c Config) Credentials() ghost.Credentials {
	return ghost.Credentials{SiteURL: c.Ghost.SiteURL, AdminAPIKey: c.Ghost.AdminAPIKey}
}

// GhostTimeout parses ghost.timeout, falling back to 20s on bad input.
func (c Config) GhostTimeout() time.Duration {
	d, err := time.ParseDuration(c.Ghost.Timeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// LockTTL parses publish.lock_ttl, falling back to 2m on bad input.
func (c Config) LockTTL() time.Duration {
	d, err := time.ParseDuration(c.Publish.LockTTL)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
