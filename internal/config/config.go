package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string   `env:"PORT"            envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT"     envDefault:"production"`
	LogLevel       string   `env:"LOG_LEVEL"       envDefault:"info"`
	DebugMode      bool     `env:"DEBUG_MODE"      envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5500"`

	WebhookURL       string   `env:"WEBHOOK_URL"`
	DashboardURL     string   `env:"DASHBOARD_URL"`
	AuthorizedEmails []string `env:"AUTHORIZED_EMAILS" envSeparator:","`

	GoogleClientID         string `env:"GOOGLE_CLIENT_ID"`
	MicrosoftClientID      string `env:"MICROSOFT_CLIENT_ID"`
	MicrosoftTenant        string `env:"MICROSOFT_TENANT"         envDefault:"common"`
	MicrosoftRedirectURI   string `env:"MICROSOFT_REDIRECT_URI"`
	MicrosoftCacheLocation string `env:"MICROSOFT_CACHE_LOCATION" envDefault:"sessionStorage"`

	// Optional; enables the cross-instance submission lock
	RedisURL          string        `env:"REDIS_URL"`
	SubmissionLockTTL time.Duration `env:"SUBMISSION_LOCK_TTL" envDefault:"30s"`

	RedirectDelay     time.Duration `env:"REDIRECT_DELAY"      envDefault:"1s"`
	SSORedirectDelay  time.Duration `env:"SSO_REDIRECT_DELAY"  envDefault:"2s"`
	SSOResendWindow   time.Duration `env:"SSO_RESEND_WINDOW"   envDefault:"30s"`
	SSOMaxAttempts    int           `env:"SSO_MAX_ATTEMPTS"    envDefault:"3"`
	SSOSimulatedDelay time.Duration `env:"SSO_SIMULATED_DELAY" envDefault:"0s"`
	SSOSessionTTL     time.Duration `env:"SSO_SESSION_TTL"     envDefault:"15m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)
	cfg.AuthorizedEmails = cleanList(cfg.AuthorizedEmails)

	return &cfg, nil
}

// Validate reports every missing required setting. An invalid config does
// not stop the server; submissions fail fast instead.
func (c *Config) Validate() []error {
	var errs []error

	if c.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("WEBHOOK_URL is not set"))
	}
	if c.GoogleClientID == "" {
		errs = append(errs, fmt.Errorf("GOOGLE_CLIENT_ID is not set"))
	}
	if c.MicrosoftClientID == "" {
		errs = append(errs, fmt.Errorf("MICROSOFT_CLIENT_ID is not set"))
	}
	if c.DashboardURL == "" {
		errs = append(errs, fmt.Errorf("DASHBOARD_URL is not set"))
	}
	if len(c.AuthorizedEmails) == 0 {
		errs = append(errs, fmt.Errorf("AUTHORIZED_EMAILS list is empty"))
	}
	if c.SSOMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("SSO_MAX_ATTEMPTS must be at least 1"))
	}

	return errs
}

// IsDevelopment reports whether the service runs outside production.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "local"
}

// cleanList trims entries and drops empty ones
func cleanList(values []string) []string {
	result := make([]string, 0, len(values))

	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
