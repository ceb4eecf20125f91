package config

import (
	"testing"
	"time"
)

func TestFillDefaults(t *testing.T) {
	var c Config
	c.Ghost.SiteURL = " https://blog.example.com/ "
	c.FillDefaults()

	if c.App.LogLevel != "info" {
		t.Errorf("log level = %q, want info", c.App.LogLevel)
	}
	if c.Ghost.SiteURL != "https://blog.example.com" {
		t.Errorf("site url = %q, want trailing slash stripped", c.Ghost.SiteURL)
	}
	if c.Ghost.Format != "mobiledoc" {
		t.Errorf("format = %q, want mobiledoc", c.Ghost.Format)
	}
	if c.Redis.Addr != "127.0.0.1:6379" {
		t.Errorf("redis addr = %q", c.Redis.Addr)
	}
	if c.Publish.HistorySize != 20 {
		t.Errorf("history size = %d, want 20", c.Publish.HistorySize)
	}
	if got := c.GhostTimeout(); got != 20*time.Second {
		t.Errorf("ghost timeout = %v, want 20s", got)
	}
	if got := c.LockTTL(); got != 2*time.Minute {
		t.Errorf("lock ttl = %v, want 2m", got)
	}
}

func TestDurationsFallBackOnBadInput(t *testing.T) {
	c := Config{Ghost: GhostConfig{Timeout: "soon"}, Publish: PublishConfig{LockTTL: "-1s"}}
	if got := c.GhostTimeout(); got != 20*time.Second {
		t.Errorf("ghost timeout = %v, want fallback 20s", got)
	}
	if got := c.LockTTL(); got != 2*time.Minute {
		t.Errorf("lock ttl = %v, want fallback 2m", got)
	}
}

func TestCredentials(t *testing.T) {
	c := Config{Ghost: GhostConfig{SiteURL: "https://x.test", AdminAPIKey: "id:00"}}
	cr := c.Credentials()
	if cr.SiteURL != "https://x.test" || cr.AdminAPIKey != "id:00" {
		t.Fatalf("unexpected credentials: %+v", cr)
	}
	if !cr.Complete() {
		t.Errorf("expected credentials to be complete")
	}
}
