// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package tenant maps incoming requests to the company whose blog is being
// served. A tenant is identified by a short lowercase key and bound to an
// immutable Config that drives branding (name, tagline, color, glyph) and
// outbound links.
package tenant

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Fallback presentation values for unregistered tenant keys.
const (
	DefaultColor   = "#6b7280"
	DefaultGlyph   = "📝"
	DefaultWebsite = "#"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Config is the presentation profile of one tenant.
type Config struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
	Glyph       string `yaml:"glyph"`
	WebsiteURL  string `yaml:"website_url"`
	HomeDomain  string `yaml:"home_domain"`

	// Degraded is set on configs synthesized for unknown keys.
	Degraded bool `yaml:"-"`
}

// Fallback returns the degraded config used when key is not registered.
func Fallback(key string) Config {
	return Config{
		Key:        key,
		Name:       key,
		Color:      DefaultColor,
		Glyph:      DefaultGlyph,
		WebsiteURL: DefaultWebsite,
		Degraded:   true,
	}
}

// SiteURL returns the canonical origin of the tenant's blog, or "" when the
// tenant has no home domain.
func (c Config) SiteURL() string {
	if c.HomeDomain == "" {
		return ""
	}
	return "https://" + c.HomeDomain
}

// WebsiteHost returns the website URL without its scheme, for display.
func (c Config) WebsiteHost() string {
	host := strings.TrimPrefix(c.WebsiteURL, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// Validate checks the fields every registered tenant must carry. Tagline and
// description may be empty.
func (c Config) Validate() error {
	var errs []error
	if c.Key == "" {
		errs = append(errs, errors.New("key is required"))
	} else if !isTenantKey(c.Key) {
		errs = append(errs, fmt.Errorf("key %q must be lowercase letters, digits or hyphens", c.Key))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !hexColorRegex.MatchString(c.Color) {
		errs = append(errs, fmt.Errorf("color %q must be a #rrggbb hex value", c.Color))
	}
	if c.Glyph == "" {
		errs = append(errs, errors.New("glyph is required"))
	}
	if c.WebsiteURL == "" {
		errs = append(errs, errors.New("website_url is required"))
	}
	if c.HomeDomain == "" {
		errs = append(errs, errors.New("home_domain is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("tenant %q: %w", c.Key, errors.Join(errs...))
	}
	return nil
}

func isTenantKey(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// builtin is the tenant set served when no registry file is configured.
var builtin = []Config{
	{
		Key: "eneza", Name: "Eneza",
		Tagline:     "WhatsApp Status Advertising",
		Description: "Reach thousands of customers through authentic WhatsApp Status ads",
		Color:       "#25D366", Glyph: "📱",
		WebsiteURL: "https://eneza.app", HomeDomain: "blog.eneza.app",
	},
	{
		Key: "yebolink", Name: "YeboLink",
		Tagline:     "Communications API for Africa",
		Description: "SMS, WhatsApp, Email & Voice APIs for African businesses",
		Color:       "#6366f1", Glyph: "🔗",
		WebsiteURL: "https://yebolink.com", HomeDomain: "blog.yebolink.com",
	},
	{
		Key: "vavu", Name: "Vavu",
		Tagline:     "Africa's Classifieds Marketplace",
		Description: "Buy and sell anything across Africa with AI-powered listings",
		Color:       "#f97316", Glyph: "🛒",
		WebsiteURL: "https://vavu.app", HomeDomain: "blog.vavu.app",
	},
	{
		Key: "bamzu", Name: "Bamzu",
		Tagline:     "Africa's Car Marketplace",
		Description: "Find new and used cars across Africa",
		Color:       "#ef4444", Glyph: "🚗",
		WebsiteURL: "https://bamzu.app", HomeDomain: "blog.bamzu.app",
	},
	{
		Key: "yebona", Name: "Yebona",
		Tagline:     "Africa-China Trade Services",
		Description: "Verified sourcing agents, freight, currency exchange & more",
		Color:       "#f59e0b", Glyph: "🌏",
		WebsiteURL: "https://yebona.com", HomeDomain: "blog.yebona.com",
	},
	{
		Key: "yebojobs", Name: "YeboJobs",
		Tagline:     "Jobs Platform for Africa",
		Description: "AI-powered job matching for African job seekers and employers",
		Color:       "#3b82f6", Glyph: "💼",
		WebsiteURL: "https://yebojobs.com", HomeDomain: "blog.yebojobs.com",
	},
	{
		Key: "yebolearn", Name: "YeboLearn",
		Tagline:     "Online Education for Africa",
		Description: "Courses, certifications, and learning paths built for Africa",
		Color:       "#8b5cf6", Glyph: "📚",
		WebsiteURL: "https://yebolearn.com", HomeDomain: "blog.yebolearn.com",
	},
	{
		Key: "yebomart", Name: "YeboMart",
		Tagline:     "AI Shop Management",
		Description: "Point-of-sale and inventory management for African shops",
		Color:       "#10b981", Glyph: "🏪",
		WebsiteURL: "https://yebomart.com", HomeDomain: "blog.yebomart.com",
	},
}
