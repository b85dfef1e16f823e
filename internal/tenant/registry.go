// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tenant

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry is a read-only table of tenant configs keyed by tenant key.
// It is safe for concurrent use because it is never mutated after
// construction.
type Registry struct {
	byKey    map[string]Config
	byDomain map[string]string
	keys     []string
}

// NewRegistry validates configs and builds a registry. Keys must be unique.
func NewRegistry(configs ...Config) (*Registry, error) {
	r := &Registry{
		byKey:    make(map[string]Config, len(configs)),
		byDomain: make(map[string]string, len(configs)),
	}
	for _, c := range configs {
		c.Degraded = false
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byKey[c.Key]; dup {
			return nil, fmt.Errorf("tenant %q registered twice", c.Key)
		}
		r.byKey[c.Key] = c
		r.byDomain[strings.ToLower(c.HomeDomain)] = c.Key
		r.keys = append(r.keys, c.Key)
	}
	slices.Sort(r.keys)
	return r, nil
}

// DefaultRegistry returns the built-in tenant set.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(builtin...)
	if err != nil {
		panic(err) // built-in data is covered by tests
	}
	return r
}

type registryFile struct {
	Tenants []Config `yaml:"tenants"`
}

// LoadFile reads a YAML registry file and merges its tenants over the
// built-in set. A file entry replaces the built-in tenant with the same key;
// fields left empty in the file inherit the built-in value.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tenants file: %w", err)
	}
	return parseRegistry(data)
}

func parseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing tenants file: %w", err)
	}
	if len(f.Tenants) == 0 {
		return nil, errors.New("tenants file defines no tenants")
	}

	merged := slices.Clone(builtin)
	for _, t := range f.Tenants {
		t.Key = strings.ToLower(strings.TrimSpace(t.Key))
		idx := slices.IndexFunc(merged, func(c Config) bool { return c.Key == t.Key })
		if idx < 0 {
			merged = append(merged, t)
			continue
		}
		merged[idx] = overlay(merged[idx], t)
	}
	return NewRegistry(merged...)
}

func overlay(base, over Config) Config {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	base.Name = pick(base.Name, over.Name)
	base.Tagline = pick(base.Tagline, over.Tagline)
	base.Description = pick(base.Description, over.Description)
	base.Color = pick(base.Color, over.Color)
	base.Glyph = pick(base.Glyph, over.Glyph)
	base.WebsiteURL = pick(base.WebsiteURL, over.WebsiteURL)
	base.HomeDomain = pick(base.HomeDomain, over.HomeDomain)
	return base
}

// Lookup returns the config registered under key. Unknown keys yield the
// degraded Fallback config; Lookup never fails.
func (r *Registry) Lookup(key string) Config {
	if c, ok := r.byKey[key]; ok {
		return c
	}
	return Fallback(key)
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// KeyForDomain returns the tenant whose home domain is exactly host.
func (r *Registry) KeyForDomain(host string) (string, bool) {
	key, ok := r.byDomain[strings.ToLower(host)]
	return key, ok
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	return slices.Clone(r.keys)
}

// All returns every registered config ordered by key.
func (r *Registry) All() []Config {
	out := make([]Config, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}
