// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/seo"
	"github.com/olegiv/tenantblog/internal/tenant"
)

// Robots handles GET /robots.txt. Unknown tenants and local hosts are
// closed to crawlers.
func (h *BlogHandler) Robots(w http.ResponseWriter, r *http.Request) {
	t := currentTenant(r)
	hc := tenant.HostContextFromRequest(r)
	disallowAll := t.Degraded || tenant.IsLocal(hc.Hostname)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.GenerateRobots(siteURL(r, t), disallowAll)))
}

// Sitemap handles GET /sitemap.xml.
func (h *BlogHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	h.writeXMLFeed(w, r, "application/xml; charset=utf-8", func(t tenant.Config, base string, posts []model.Post) ([]byte, error) {
		return seo.GenerateSitemap(base, posts)
	})
}

// Feed handles GET /feed.xml.
func (h *BlogHandler) Feed(w http.ResponseWriter, r *http.Request) {
	h.writeXMLFeed(w, r, "application/rss+xml; charset=utf-8", func(t tenant.Config, base string, posts []model.Post) ([]byte, error) {
		return seo.GenerateFeed(t, base, posts, seo.DefaultFeedItems)
	})
}

type xmlBuilder func(t tenant.Config, base string, posts []model.Post) ([]byte, error)

func (h *BlogHandler) writeXMLFeed(w http.ResponseWriter, r *http.Request, contentType string, build xmlBuilder) {
	ctx := r.Context()
	t := currentTenant(r)

	posts, err := h.content.ListPosts(ctx, t.Key, model.StatusPublished)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		w.Header().Set("Retry-After", fetchFailedRetryAfter)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	body, err := build(t, siteURL(r, t), posts)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build xml document", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(body)
}
