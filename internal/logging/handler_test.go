// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m); err != nil {
		t.Fatalf("decoding log line %q: %v", buf.String(), err)
	}
	return m
}

func TestContextHandler_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	logger.InfoContext(ctx, "hello")

	m := decodeLine(t, &buf)
	if m["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want %q", m["request_id"], "req-42")
	}
}

func TestContextHandler_AddsContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := WithAttrs(context.Background(), slog.String("tenant", "eneza"))
	ctx = WithAttrs(ctx, slog.String("slug", "hello"))
	logger.WarnContext(ctx, "post missing")

	m := decodeLine(t, &buf)
	if m["tenant"] != "eneza" {
		t.Errorf("tenant = %v, want %q", m["tenant"], "eneza")
	}
	if m["slug"] != "hello" {
		t.Errorf("slug = %v, want %q", m["slug"], "hello")
	}
}

func TestContextHandler_NoContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("plain")

	m := decodeLine(t, &buf)
	if _, ok := m["request_id"]; ok {
		t.Error("request_id should be absent without a request context")
	}
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.With("component", "scheduler").WithGroup("job").Info("ran", "tenants", 3)

	m := decodeLine(t, &buf)
	if m["component"] != "scheduler" {
		t.Errorf("component = %v, want %q", m["component"], "scheduler")
	}
	job, ok := m["job"].(map[string]any)
	if !ok || job["tenants"] != float64(3) {
		t.Errorf("job group = %v", m["job"])
	}
}

func TestContextHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewContextHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_Format(t *testing.T) {
	var text bytes.Buffer
	New(&text, "info", true).Info("hello", "k", "v")
	if !strings.Contains(text.String(), "k=v") {
		t.Errorf("development logger should write text, got %q", text.String())
	}

	var js bytes.Buffer
	New(&js, "info", false).Info("hello", "k", "v")
	if decodeLine(t, &js)["k"] != "v" {
		t.Errorf("production logger should write JSON, got %q", js.String())
	}

	var quiet bytes.Buffer
	New(&quiet, "error", false).Warn("dropped")
	if quiet.Len() != 0 {
		t.Errorf("warn should be filtered at error level, got %q", quiet.String())
	}
}
