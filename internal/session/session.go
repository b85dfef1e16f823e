// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps short-lived per-visitor state between a comment
// POST and the redirected GET: flash messages and the comment that was
// just created, so it can be shown before the content API lists it.
package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/tenantblog/internal/model"
)

const (
	flashKey          = "flash"
	flashKindKey      = "flash_kind"
	pendingCommentKey = "pending_comment"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// CookieName is the session cookie name in development. Production uses
// the __Host- prefixed variant.
const CookieName = "tenantblog_session"

func init() {
	gob.Register(model.Comment{})
}

// Manager wraps an scs session manager with typed accessors.
type Manager struct {
	*scs.SessionManager
}

// New creates a session manager backed by an in-memory store.
// Sessions only need to survive a redirect, so the lifetime is short.
func New(isDev bool) *Manager {
	sm := scs.New()
	sm.Store = memstore.NewWithCleanupInterval(5 * time.Minute)

	sm.Lifetime = 30 * time.Minute
	sm.IdleTimeout = 10 * time.Minute
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Persist = false
	sm.Cookie.Secure = !isDev
	sm.Cookie.Name = CookieName
	if !isDev {
		sm.Cookie.Name = "__Host-" + CookieName
	}

	return &Manager{SessionManager: sm}
}

// Flash is a one-time message shown on the next page view.
type Flash struct {
	Kind    string
	Message string
}

// PutFlash stores a flash message for the next request.
func (m *Manager) PutFlash(ctx context.Context, kind, message string) {
	m.Put(ctx, flashKindKey, kind)
	m.Put(ctx, flashKey, message)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(ctx context.Context) (Flash, bool) {
	msg := m.PopString(ctx, flashKey)
	kind := m.PopString(ctx, flashKindKey)
	if msg == "" {
		return Flash{}, false
	}
	if kind == "" {
		kind = FlashSuccess
	}
	return Flash{Kind: kind, Message: msg}, true
}

// PutPendingComment remembers a freshly created comment so the post page
// can show it even if the API has not indexed it yet.
func (m *Manager) PutPendingComment(ctx context.Context, c model.Comment) {
	m.Put(ctx, pendingCommentKey, c)
}

// PopPendingComment returns the pending comment when it belongs to the
// given tenant and post. A comment for another post stays stored.
func (m *Manager) PopPendingComment(ctx context.Context, tenantKey, slug string) (model.Comment, bool) {
	c, ok := m.Get(ctx, pendingCommentKey).(model.Comment)
	if !ok || c.TenantKey != tenantKey || c.PostSlug != slug {
		return model.Comment{}, false
	}
	m.Remove(ctx, pendingCommentKey)
	return c, true
}
