// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
honoured when present so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the HR portal API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value counters (Redis). Empty selects the in-process store.
	RedisURL string `env:"REDIS_URL"`

	Token      TokenConfig      `envPrefix:"JWT_"`
	LoginGuard LoginGuardConfig `envPrefix:"LOGIN_"`
	RateLimit  RateLimitConfig  `envPrefix:"RATE_LIMIT_"`
	Burst      BurstConfig      `envPrefix:"BURST_"`
	Mail       MailConfig       `envPrefix:"MAIL_"`
	Telemetry  TelemetryConfig  `envPrefix:"OTEL_EXPORTER_OTLP_"`

	// Cross-Origin Resource Sharing. "*" allows every origin.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// TrustedProxyHeader names the forwarding header set by the proxy in
	// front of the server: none, cf, realip or xff. With none the socket
	// address identifies the client.
	TrustedProxyHeader string `env:"TRUSTED_PROXY_HEADER" envDefault:"none"`

	// FrontendURL is used to build links inside outgoing emails.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// TokenConfig configures the signed bearer tokens.
//
// TTL values are shorthand strings ("24h", "30d", "15m") parsed by
// [sec.ParseTTL]; unrecognised values fall back to FallbackTTL.
type TokenConfig struct {
	Secret      string `env:"SECRET,required"`
	Issuer      string `env:"ISSUER"       envDefault:"hrportal"`
	AccessTTL   string `env:"ACCESS_TTL"   envDefault:"24h"`
	RememberTTL string `env:"REMEMBER_TTL" envDefault:"30d"`
	RefreshTTL  string `env:"REFRESH_TTL"  envDefault:"30d"`
	FallbackTTL string `env:"FALLBACK_TTL" envDefault:"24h"`
}

// LoginGuardConfig configures the failed-login lockout.
type LoginGuardConfig struct {
	MaxAttempts int    `env:"MAX_ATTEMPTS" envDefault:"5"`
	Lockout     string `env:"LOCKOUT"      envDefault:"15m"`
	AttemptTTL  string `env:"ATTEMPT_TTL"  envDefault:"24h"`
}

// RateLimitConfig holds the fixed-window rules keyed by name.
type RateLimitConfig struct {
	LoginRequests    int    `env:"LOGIN_REQUESTS"    envDefault:"5"`
	LoginWindow      string `env:"LOGIN_WINDOW"      envDefault:"15m"`
	RegisterRequests int    `env:"REGISTER_REQUESTS" envDefault:"3"`
	RegisterWindow   string `env:"REGISTER_WINDOW"   envDefault:"1h"`
	APIRequests      int    `env:"API_REQUESTS"      envDefault:"1000"`
	APIWindow        string `env:"API_WINDOW"        envDefault:"1h"`
}

// BurstConfig configures the process-local token bucket that sits in front
// of the shared fixed-window limiter.
type BurstConfig struct {
	RPS  float64 `env:"RPS"  envDefault:"100"`
	Size int     `env:"SIZE" envDefault:"150"`
}

// MailConfig selects and configures the outgoing mail provider.
type MailConfig struct {
	Provider       string `env:"PROVIDER"         envDefault:"log"`
	From           string `env:"FROM"             envDefault:"no-reply@hrportal.local"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint string `env:"ENDPOINT"`
	Insecure bool   `env:"INSECURE" envDefault:"true"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a
// [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal case outside development
	_ = godotenv.Load()

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// minSecretLength is the shortest HMAC secret accepted for token signing.
const minSecretLength = 32

// Validate rejects configurations that would leave the server insecure or
// with limits that can never be satisfied.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Token.Secret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.LoginGuard.MaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.RateLimit.LoginRequests <= 0 || c.RateLimit.RegisterRequests <= 0 || c.RateLimit.APIRequests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_*_REQUESTS must be positive"))
	}
	if c.Burst.RPS <= 0 || c.Burst.Size <= 0 {
		errs = append(errs, errors.New("BURST_RPS and BURST_SIZE must be positive"))
	}

	switch strings.ToLower(c.TrustedProxyHeader) {
	case "", "none", "cf", "realip", "xff":
	default:
		errs = append(errs, fmt.Errorf("unknown TRUSTED_PROXY_HEADER %q", c.TrustedProxyHeader))
	}

	switch strings.ToLower(c.Mail.Provider) {
	case "log":
	case "sendgrid":
		if c.Mail.SendGridAPIKey == "" {
			errs = append(errs, errors.New("MAIL_SENDGRID_API_KEY is required when MAIL_PROVIDER=sendgrid"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
