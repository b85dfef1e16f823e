// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/tenantblog/internal/cache"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type pingingCache struct {
	*cache.MemoryCache
	err error
}

func (c pingingCache) Ping(context.Context) error { return c.err }

func newHealthRequest(path, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp
}

func TestHealthHandler_Health_Public(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, nil, "v1.0.0")

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", "8.8.8.8:4000"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	resp := decodeBody(t, w)
	if resp["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, field := range []string{"checks", "uptime", "version"} {
		if _, ok := resp[field]; ok {
			t.Errorf("public response should not contain %q", field)
		}
	}
}

func TestHealthHandler_Health_Internal(t *testing.T) {
	h := NewHealthHandler(fakePinger{}, nil, "v1.0.0")

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health?verbose=true", "127.0.0.1:4000"))

	resp := decodeBody(t, w)
	if resp["version"] != "v1.0.0" {
		t.Errorf("version = %v; want v1.0.0", resp["version"])
	}
	checks, ok := resp["checks"].(map[string]any)
	if !ok {
		t.Fatalf("checks missing from internal response: %v", resp)
	}
	if _, ok := checks["content_api"]; !ok {
		t.Error("checks should include content_api")
	}
	if _, ok := resp["system"]; !ok {
		t.Error("verbose response should include system info")
	}
}

func TestHealthHandler_Health_CacheStats(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()
	_ = mem.Set(t.Context(), cache.PostKey("eneza", "a"), []byte("v"), 0)
	_, _ = mem.Get(t.Context(), cache.PostKey("eneza", "a"))

	h := NewHealthHandler(fakePinger{}, mem, "dev")

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", "127.0.0.1:4000"))

	stats, ok := decodeBody(t, w)["cache"].(map[string]any)
	if !ok {
		t.Fatal("internal response should include cache stats")
	}
	if stats["items"] != float64(1) || stats["hits"] != float64(1) {
		t.Errorf("cache stats = %v; want 1 item and 1 hit", stats)
	}

	w = httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", "8.8.8.8:4000"))
	if _, ok := decodeBody(t, w)["cache"]; ok {
		t.Error("public response should not contain cache stats")
	}
}

func TestHealthHandler_Health_APIDown(t *testing.T) {
	h := NewHealthHandler(fakePinger{err: errors.New("connection refused")}, nil, "dev")

	w := httptest.NewRecorder()
	h.Health(w, newHealthRequest("/health", "10.0.0.5:4000"))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d; want %d while pages still render", w.Code, http.StatusOK)
	}
	resp := decodeBody(t, w)
	if resp["status"] != "degraded" {
		t.Errorf("status = %v; want degraded", resp["status"])
	}
	check := resp["checks"].(map[string]any)["content_api"].(map[string]any)
	if check["message"] != "connection refused" {
		t.Errorf("content_api message = %v", check["message"])
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil, "dev")

	w := httptest.NewRecorder()
	h.Liveness(w, newHealthRequest("/health/live", "8.8.8.8:4000"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if resp := decodeBody(t, w); resp["status"] != "alive" {
		t.Errorf("status = %v; want alive", resp["status"])
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	defer func() { _ = mem.Close() }()

	tests := []struct {
		name       string
		cache      cache.Cacher
		remoteAddr string
		wantStatus int
		wantMsg    bool
	}{
		{"no cache", nil, "8.8.8.8:1", http.StatusOK, false},
		{"memory cache", mem, "8.8.8.8:1", http.StatusOK, false},
		{"redis up", pingingCache{MemoryCache: mem}, "8.8.8.8:1", http.StatusOK, false},
		{"redis down public", pingingCache{MemoryCache: mem, err: errors.New("dial tcp")}, "8.8.8.8:1", http.StatusServiceUnavailable, false},
		{"redis down internal", pingingCache{MemoryCache: mem, err: errors.New("dial tcp")}, "127.0.0.1:1", http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fakePinger{}, tt.cache, "dev")

			w := httptest.NewRecorder()
			h.Readiness(w, newHealthRequest("/health/ready", tt.remoteAddr))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d; want %d", w.Code, tt.wantStatus)
			}
			_, hasMsg := decodeBody(t, w)["message"]
			if hasMsg != tt.wantMsg {
				t.Errorf("message present = %v; want %v", hasMsg, tt.wantMsg)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
