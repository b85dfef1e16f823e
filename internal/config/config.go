// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret string `env:"TENANTBLOG_SESSION_SECRET,required"`
	ServerHost    string `env:"TENANTBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"TENANTBLOG_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"TENANTBLOG_ENV" envDefault:"development"`
	LogLevel      string `env:"TENANTBLOG_LOG_LEVEL" envDefault:"info"`

	// Content API
	APIBaseURL string        `env:"TENANTBLOG_API_BASE_URL" envDefault:"https://autoblogger-238692725328.europe-west1.run.app"`
	APITimeout time.Duration `env:"TENANTBLOG_API_TIMEOUT" envDefault:"10s"`
	ListLimit  int           `env:"TENANTBLOG_LIST_LIMIT" envDefault:"100"`

	// Tenants
	DefaultTenant string `env:"TENANTBLOG_DEFAULT_TENANT" envDefault:"eneza"`
	TenantsFile   string `env:"TENANTBLOG_TENANTS_FILE"` // Optional YAML file merged over built-in tenants

	// Presentation
	PageSize   int `env:"TENANTBLOG_PAGE_SIZE" envDefault:"12"`
	MaxRelated int `env:"TENANTBLOG_MAX_RELATED" envDefault:"3"`

	// Cache configuration
	RedisURL     string `env:"TENANTBLOG_REDIS_URL"`                             // Optional Redis URL for shared caching
	CachePrefix  string `env:"TENANTBLOG_CACHE_PREFIX" envDefault:"tenantblog:"` // Redis key prefix
	CacheTTL     int    `env:"TENANTBLOG_CACHE_TTL" envDefault:"300"`            // Listing/post TTL in seconds
	CacheMaxSize int    `env:"TENANTBLOG_CACHE_MAX_SIZE" envDefault:"10000"`     // Max memory cache entries

	// Background cache warm-up (cron spec, empty disables)
	WarmupSchedule string `env:"TENANTBLOG_WARMUP_SCHEDULE" envDefault:"*/5 * * * *"`

	// Comment submissions
	CommentRateLimit float64 `env:"TENANTBLOG_COMMENT_RATE_LIMIT" envDefault:"0.2"`
	CommentBurst     int     `env:"TENANTBLOG_COMMENT_BURST" envDefault:"3"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a time.Duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The CSRF key derivation requires 32 bytes.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("TENANTBLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("TENANTBLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("TENANTBLOG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("TENANTBLOG_API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.PageSize < 1 {
		return fmt.Errorf("TENANTBLOG_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxRelated < 1 {
		return fmt.Errorf("TENANTBLOG_MAX_RELATED must be positive, got %d", c.MaxRelated)
	}
	if c.ListLimit < 1 {
		return fmt.Errorf("TENANTBLOG_LIST_LIMIT must be positive, got %d", c.ListLimit)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("TENANTBLOG_API_TIMEOUT must be positive, got %s", c.APITimeout)
	}

	c.DefaultTenant = strings.ToLower(strings.TrimSpace(c.DefaultTenant))
	if c.DefaultTenant == "" {
		return errors.New("TENANTBLOG_DEFAULT_TENANT must not be empty")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
