// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

// Config holds all recognized environment options.
type Config struct {
	Port int    `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID,required"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET,required"`
	SpotifyRedirectURI  string `env:"SPOTIFY_REDIRECT_URI" envDefault:"http://127.0.0.1:8080/auth/callback"`

	SessionSecret     string `env:"SESSION_SECRET,required"`
	SessionTTLSeconds int    `env:"SESSION_TTL_SECONDS" envDefault:"3600"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// DatabaseURL is optional; when set, sessions are stored in PostgreSQL
	// instead of process memory.
	DatabaseURL string `env:"DATABASE_URL"`

	// MoodTablePath optionally overrides the built-in mood-to-genre table
	// with a TOML file.
	MoodTablePath string `env:"MOOD_TABLE_PATH"`

	// StaticDir optionally serves a built frontend from disk at "/".
	StaticDir string `env:"STATIC_DIR"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Per-IP rate limit for /api routes, in requests per second.
	APIRateLimit float64 `env:"API_RATE_LIMIT" envDefault:"5"`
	APIRateBurst int     `env:"API_RATE_BURST" envDefault:"10"`
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies, strict secret validation).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Validate checks invariants that env tags cannot express.
func (c *Config) Validate() error {
	if c.SessionTTLSeconds <= 0 {
		return fmt.Errorf("SESSION_TTL_SECONDS must be positive")
	}
	if c.APIRateLimit <= 0 || c.APIRateBurst <= 0 {
		return fmt.Errorf("API_RATE_LIMIT and API_RATE_BURST must be positive")
	}

	if c.IsProduction() {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
