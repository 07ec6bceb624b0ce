package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" || cfg.TokenTTL != 15*time.Minute || cfg.AdminRole != "admin" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RatePerSec != 10 || cfg.RateBurst != 20 || cfg.PageSize != 25 || !cfg.DemoData || cfg.DevTokens {
		t.Fatalf("unexpected limiter defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PARISH_API_URL", "https://parish.example.org/api")
	t.Setenv("PARISH_TOKEN_TTL", "1h")
	t.Setenv("PARISH_ADMIN_ROLE", "pastor")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://parish.example.org/api" || cfg.TokenTTL != time.Hour || cfg.AdminRole != "pastor" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("PARISH_RATE_BURST", "lots")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("PARISH_PAGE_SIZE", "0")
	t.Setenv("PARISH_TOKEN_TTL", "0s")
	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"PARISH_PAGE_SIZE", "PARISH_TOKEN_TTL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %v", want, err)
		}
	}
}
