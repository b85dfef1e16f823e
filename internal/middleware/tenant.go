// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/tenantblog/internal/logging"
	"github.com/olegiv/tenantblog/internal/tenant"
)

// ResolveTenant resolves the tenant of every request from its host and
// stores it in the request context. Resolution never fails; unknown hosts
// get a degraded config.
func ResolveTenant(resolver *tenant.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hc := tenant.HostContextFromRequest(r)
			cfg := resolver.Resolve(hc)

			ctx := tenant.WithConfig(r.Context(), cfg, resolver.UsesOverride(hc))
			ctx = logging.WithAttrs(ctx, slog.String("tenant", cfg.Key))
			if cfg.Degraded {
				slog.DebugContext(ctx, "unregistered tenant", "host", hc.Hostname)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
