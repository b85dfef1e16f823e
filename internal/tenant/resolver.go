// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tenant

import (
	"net"
	"net/http"
	"strings"
)

// OverrideParam is the query parameter that selects a tenant on local hosts.
const OverrideParam = "company"

// HostContext is the part of a request that tenant resolution depends on.
type HostContext struct {
	Hostname      string
	QueryOverride string
}

// HostContextFromRequest extracts the hostname (without port or trailing
// dot) and the override query value from r.
func HostContextFromRequest(r *http.Request) HostContext {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.Trim(host, "[]"), ".")
	return HostContext{
		Hostname:      strings.ToLower(host),
		QueryOverride: r.URL.Query().Get(OverrideParam),
	}
}

// IsLocal reports whether hostname is a loopback development host.
func IsLocal(hostname string) bool {
	switch strings.ToLower(hostname) {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// Resolver derives tenant identity from a HostContext.
type Resolver struct {
	registry   *Registry
	defaultKey string
}

// NewResolver creates a resolver over registry. defaultKey is used on local
// hosts when no valid override is given.
func NewResolver(registry *Registry, defaultKey string) *Resolver {
	return &Resolver{registry: registry, defaultKey: defaultKey}
}

// Registry returns the registry the resolver looks tenants up in.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// ResolveKey returns the tenant key for hc.
//
// Local hosts use the override query value when it is a well-formed key,
// else the default key. Other hosts match a registered home domain exactly,
// then fall back to label splitting: for "blog.<tenant>.<tld>" the second
// label is the key, otherwise the first. The result may be unregistered.
func (r *Resolver) ResolveKey(hc HostContext) string {
	host := strings.ToLower(strings.TrimSuffix(hc.Hostname, "."))

	if IsLocal(host) {
		if o := strings.ToLower(strings.TrimSpace(hc.QueryOverride)); isTenantKey(o) {
			return o
		}
		return r.defaultKey
	}

	if key, ok := r.registry.KeyForDomain(host); ok {
		return key
	}

	labels := strings.Split(host, ".")
	if labels[0] == "blog" && len(labels) > 1 {
		return labels[1]
	}
	return labels[0]
}

// UsesOverride reports whether ResolveKey(hc) is taken from the override
// query value rather than the host.
func (r *Resolver) UsesOverride(hc HostContext) bool {
	return IsLocal(strings.TrimSuffix(hc.Hostname, ".")) &&
		isTenantKey(strings.ToLower(strings.TrimSpace(hc.QueryOverride)))
}

// Resolve returns the tenant config for hc. It never fails; unknown keys
// yield a degraded config.
func (r *Resolver) Resolve(hc HostContext) Config {
	return r.registry.Lookup(r.ResolveKey(hc))
}
