// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mileusna/useragent"

	"github.com/olegiv/tenantblog/internal/util"
)

// Client describes the user agent of a request.
type Client struct {
	Browser    string
	OS         string
	DeviceType string // mobile, tablet, bot or desktop
}

// ParseClient extracts browser, OS, and device type from a user agent string.
func ParseClient(uaString string) Client {
	ua := useragent.Parse(uaString)

	c := Client{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if c.Browser == "" {
		c.Browser = "Unknown"
	}
	if c.OS == "" {
		c.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		c.DeviceType = "bot"
	case ua.Mobile:
		c.DeviceType = "mobile"
	case ua.Tablet:
		c.DeviceType = "tablet"
	default:
		c.DeviceType = "desktop"
	}
	return c
}

// RequestLogger logs one line per request. Crawler traffic and static
// assets are logged at debug level, server errors at error level.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			client := ParseClient(r.UserAgent())

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case client.DeviceType == "bot", isStaticPath(r.URL.Path):
				level = slog.LevelDebug
			}

			logger.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("host", r.Host),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("ip", util.ClientIP(r)),
				slog.String("browser", client.Browser),
				slog.String("os", client.OS),
				slog.String("device", client.DeviceType),
			)
		})
	}
}

func isStaticPath(path string) bool {
	return strings.HasPrefix(path, "/static/")
}
