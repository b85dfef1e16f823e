// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/tenantblog/internal/model"
)

func TestNew_DevMode(t *testing.T) {
	m := New(true)

	assert.False(t, m.Cookie.Secure)
	assert.Equal(t, CookieName, m.Cookie.Name)
	assert.True(t, m.Cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, m.Cookie.SameSite)
}

func TestNew_ProductionMode(t *testing.T) {
	m := New(false)

	assert.True(t, m.Cookie.Secure)
	assert.Equal(t, "__Host-"+CookieName, m.Cookie.Name)
	assert.Equal(t, "/", m.Cookie.Path)
	assert.Equal(t, 30*time.Minute, m.Lifetime)
}

// withSession runs fn inside a loaded session, the way LoadAndSave does
// for real requests.
func withSession(t *testing.T, m *Manager, fn func(ctx context.Context)) {
	t.Helper()
	ctx, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	fn(ctx)
}

func TestFlash(t *testing.T) {
	m := New(true)
	withSession(t, m, func(ctx context.Context) {
		_, ok := m.PopFlash(ctx)
		assert.False(t, ok)

		m.PutFlash(ctx, FlashError, "Post not found")
		f, ok := m.PopFlash(ctx)
		require.True(t, ok)
		assert.Equal(t, Flash{Kind: FlashError, Message: "Post not found"}, f)

		_, ok = m.PopFlash(ctx)
		assert.False(t, ok, "flash is shown once")
	})
}

func TestPendingComment(t *testing.T) {
	m := New(true)
	c := model.Comment{ID: "7", Name: "Ada", Body: "Nice", PostSlug: "hello", TenantKey: "vavu"}

	withSession(t, m, func(ctx context.Context) {
		m.PutPendingComment(ctx, c)

		_, ok := m.PopPendingComment(ctx, "vavu", "other")
		assert.False(t, ok, "comment belongs to another post")
		_, ok = m.PopPendingComment(ctx, "eneza", "hello")
		assert.False(t, ok, "comment belongs to another tenant")

		got, ok := m.PopPendingComment(ctx, "vavu", "hello")
		require.True(t, ok)
		assert.Equal(t, c, got)

		_, ok = m.PopPendingComment(ctx, "vavu", "hello")
		assert.False(t, ok)
	})
}

func TestFlashSurvivesRedirect(t *testing.T) {
	m := New(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/put", func(w http.ResponseWriter, r *http.Request) {
		m.PutFlash(r.Context(), FlashSuccess, "Comment posted")
		http.Redirect(w, r, "/get", http.StatusSeeOther)
	})
	mux.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
		f, _ := m.PopFlash(r.Context())
		_, _ = w.Write([]byte(f.Message))
	})
	handler := m.LoadAndSave(mux)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/put", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "Comment posted", rec.Body.String())
}
