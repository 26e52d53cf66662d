package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Errorf("expected default refresh interval 30m, got %s", cfg.RefreshInterval)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected default max retries 3, got %d", cfg.MaxRetries)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATES_REFRESH_INTERVAL", "5m")
	t.Setenv("OFFICIAL_RATES_URL", "https://rates.example.com")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("expected refresh interval 5m, got %s", cfg.RefreshInterval)
	}
	if cfg.OfficialRatesURL != "https://rates.example.com" {
		t.Errorf("unexpected rates url %s", cfg.OfficialRatesURL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("malformed int must fall back to default, got %d", cfg.Port)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("malformed duration must fall back to default, got %s", cfg.HTTPTimeout)
	}
}
