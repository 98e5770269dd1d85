// Package config resolves runtime settings from defaults, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting of the contactbook server.
type Config struct {
	Addr        string
	DatabaseURL string // empty selects the in-memory store
	SessionTTL  time.Duration
	LogLevel    string

	RedisAddr       string // empty selects the in-process login limiter
	RedisPassword   string
	LoginRateLimit  int
	LoginRateWindow time.Duration

	OIDCIssuer       string // empty disables SSO
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		SessionTTL:      30 * 24 * time.Hour,
		LogLevel:        "info",
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
	}
}

// SSOEnabled reports whether enough OIDC settings are present to offer SSO.
func (c *Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Load builds a Config from defaults, then the environment, then args.
func Load(args []string) (*Config, error) {
	c := Default()
	if err := c.fromEnv(); err != nil {
		return nil, err
	}
	if err := c.fromFlags(args); err != nil {
		return nil, err
	}
	if c.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", c.SessionTTL)
	}
	if c.LoginRateLimit < 0 {
		return nil, fmt.Errorf("login rate limit must not be negative, got %d", c.LoginRateLimit)
	}
	return c, nil
}

func (c *Config) fromEnv() error {
	c.Addr = env("ADDR", c.Addr)
	c.DatabaseURL = env("DATABASE_URL", c.DatabaseURL)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.RedisAddr = env("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = env("REDIS_PASSWORD", c.RedisPassword)
	c.OIDCIssuer = env("OIDC_ISSUER", c.OIDCIssuer)
	c.OIDCClientID = env("OIDC_CLIENT_ID", c.OIDCClientID)
	c.OIDCClientSecret = env("OIDC_CLIENT_SECRET", c.OIDCClientSecret)
	c.OIDCRedirectURL = env("OIDC_REDIRECT_URL", c.OIDCRedirectURL)

	var err error
	if c.SessionTTL, err = envDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.LoginRateWindow, err = envDuration("LOGIN_RATE_WINDOW", c.LoginRateWindow); err != nil {
		return err
	}
	if v := os.Getenv("LOGIN_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOGIN_RATE_LIMIT: %w", err)
		}
		c.LoginRateLimit = n
	}
	return nil
}

func (c *Config) fromFlags(args []string) error {
	fs := flag.NewFlagSet("contactbook", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "postgres connection string (empty for in-memory)")
	fs.DurationVar(&c.SessionTTL, "session-ttl", c.SessionTTL, "API token lifetime")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "redis address for the login rate limiter")
	fs.IntVar(&c.LoginRateLimit, "login-rate-limit", c.LoginRateLimit, "login attempts per window (0 disables)")
	fs.DurationVar(&c.LoginRateWindow, "login-rate-window", c.LoginRateWindow, "login rate limit window")
	fs.StringVar(&c.OIDCIssuer, "oidc-issuer", c.OIDCIssuer, "OIDC issuer URL (empty disables SSO)")
	fs.StringVar(&c.OIDCRedirectURL, "oidc-redirect-url", c.OIDCRedirectURL, "OIDC redirect URL")

	return fs.Parse(args)
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
