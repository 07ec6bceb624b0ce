// Package config loads runtime settings from PARISH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration shared by the CLI and the dev API.
type Config struct {
	APIURL      string        `env:"PARISH_API_URL"      envDefault:"http://localhost:8080"`
	ListenAddr  string        `env:"PARISH_LISTEN_ADDR"  envDefault:":8080"`
	AuthSecret  string        `env:"PARISH_AUTH_SECRET"`
	AuthIssuer  string        `env:"PARISH_AUTH_ISSUER"  envDefault:"parish"`
	TokenTTL    time.Duration `env:"PARISH_TOKEN_TTL"    envDefault:"15m"`
	Token       string        `env:"PARISH_TOKEN"`
	AdminRole   string        `env:"PARISH_ADMIN_ROLE"   envDefault:"admin"`
	RatePerSec  float64       `env:"PARISH_RATE_LIMIT"   envDefault:"10"`
	RateBurst   int           `env:"PARISH_RATE_BURST"   envDefault:"20"`
	HTTPTimeout time.Duration `env:"PARISH_HTTP_TIMEOUT" envDefault:"15s"`
	PageSize    int           `env:"PARISH_PAGE_SIZE"    envDefault:"25"`
	DemoData    bool          `env:"PARISH_DEMO_DATA"    envDefault:"true"`
	DevTokens   bool          `env:"PARISH_DEV_TOKENS"   envDefault:"false"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("PARISH_TOKEN_TTL must be positive"))
	}
	if c.RateBurst < 0 {
		errs = append(errs, errors.New("PARISH_RATE_BURST must not be negative"))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, errors.New("PARISH_HTTP_TIMEOUT must be positive"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("PARISH_PAGE_SIZE must be positive"))
	}
	return errors.Join(errs...)
}
