// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	// Example: redis://localhost:6379/0
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	CleanupInterval time.Duration

	// FallbackToMemory uses the memory cache when Redis is unreachable.
	FallbackToMemory bool
}

// Info describes the backend New actually built.
type Info struct {
	Backend  string // "memory" or "redis"
	Fallback bool   // Redis was requested but memory is in use
	Error    error  // connection error that caused the fallback
}

// New creates a cache based on cfg.
func New(cfg Config) (Cacher, Info, error) {
	if cfg.RedisURL == "" {
		return newMemory(cfg), Info{Backend: "memory"}, nil
	}

	rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	if err == nil {
		return rc, Info{Backend: "redis"}, nil
	}
	if !cfg.FallbackToMemory {
		return nil, Info{}, fmt.Errorf("connecting to redis at %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
	}

	slog.Warn("redis unavailable, falling back to memory cache",
		"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
	return newMemory(cfg), Info{Backend: "memory", Fallback: true, Error: err}, nil
}

func newMemory(cfg Config) *MemoryCache {
	interval := cfg.CleanupInterval
	if interval == 0 {
		interval = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: interval,
	})
}

// SanitizeRedisURL masks the password in a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}
