// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tenant

import "context"

type contextKey struct{}

// scope is what the request context carries about the current tenant.
type scope struct {
	config   Config
	override bool
}

// WithConfig stores the resolved tenant in ctx. override marks a tenant that
// was selected via the query parameter, so generated links keep it.
func WithConfig(ctx context.Context, c Config, override bool) context.Context {
	return context.WithValue(ctx, contextKey{}, scope{config: c, override: override})
}

// FromContext returns the tenant stored in ctx.
func FromContext(ctx context.Context) (Config, bool) {
	s, ok := ctx.Value(contextKey{}).(scope)
	return s.config, ok
}

// OverrideFromContext reports whether the tenant in ctx came from the
// query override.
func OverrideFromContext(ctx context.Context) bool {
	s, ok := ctx.Value(contextKey{}).(scope)
	return ok && s.override
}
