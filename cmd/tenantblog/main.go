// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/config"
	"github.com/olegiv/tenantblog/internal/content"
	"github.com/olegiv/tenantblog/internal/handler"
	"github.com/olegiv/tenantblog/internal/logging"
	"github.com/olegiv/tenantblog/internal/markdown"
	"github.com/olegiv/tenantblog/internal/middleware"
	"github.com/olegiv/tenantblog/internal/scheduler"
	"github.com/olegiv/tenantblog/internal/session"
	"github.com/olegiv/tenantblog/internal/tenant"
	"github.com/olegiv/tenantblog/internal/theme"
	"github.com/olegiv/tenantblog/internal/version"
	"github.com/olegiv/tenantblog/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second

	// staticMaxAge is one year; asset URLs change with each release.
	staticMaxAge = 31536000
)

// registerBlogRoutes registers the public blog routes. The legacy
// /{slug} route must come last so it never shadows a fixed path.
func registerBlogRoutes(r chi.Router, h *handler.BlogHandler, commentLimiter *middleware.RateLimiter, csrf func(http.Handler) http.Handler) {
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/feed.xml", h.Feed)

	r.Group(func(r chi.Router) {
		r.Use(middleware.PageCache(0))
		r.Get("/", h.List)
		r.Get("/posts/{slug}", h.Post)
		r.Get("/{slug}", h.LegacyPost)
	})

	r.With(commentLimiter.Middleware(), csrf).Post("/posts/{slug}/comments", h.CreateComment)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	warmOnly := flag.Bool("warm", false, "Warm the post cache for every tenant and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "tenantblog - multi-tenant company blog server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_SESSION_SECRET   Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_API_BASE_URL     Content API origin\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_DEFAULT_TENANT   Tenant served on local hosts (default: eneza)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_TENANTS_FILE     YAML file merged over the built-in tenants (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_REDIS_URL        Redis URL for shared caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TENANTBLOG_WARMUP_SCHEDULE  Cron schedule for cache warm-up, empty disables\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo, *warmOnly); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info, warmOnly bool) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(logger)

	// Tenants
	registry := tenant.DefaultRegistry()
	if cfg.TenantsFile != "" {
		registry, err = tenant.LoadFile(cfg.TenantsFile)
		if err != nil {
			return fmt.Errorf("loading tenants: %w", err)
		}
	}
	if !registry.Has(cfg.DefaultTenant) {
		slog.Warn("default tenant is not registered, local hosts will render a fallback", "tenant", cfg.DefaultTenant)
	}
	resolver := tenant.NewResolver(registry, cfg.DefaultTenant)
	slog.Info("tenants loaded", "count", len(registry.Keys()), "default", cfg.DefaultTenant)

	// Cache
	cacher, cacheInfo, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          cfg.CacheMaxSize,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cacheInfo.Fallback {
		slog.Warn("cache initialized", "backend", cacheInfo.Backend, "note", "Redis unavailable, using fallback")
	} else {
		slog.Info("cache initialized", "backend", cacheInfo.Backend)
	}

	// Content API
	contentClient, err := content.New(content.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		ListLimit: cfg.ListLimit,
		Cache:     cacher,
		CacheTTL:  cfg.CacheTTLDuration(),
		UserAgent: versionInfo.UserAgent(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("initializing content client: %w", err)
	}

	// Cache warm-up
	warmer := scheduler.New(contentClient, registry.Keys(), cfg.WarmupSchedule, logger)
	if warmOnly {
		res := warmer.WarmUp(context.Background())
		if res.Failed > 0 {
			return fmt.Errorf("warm-up failed for %d of %d tenants", res.Failed, res.Failed+res.Refreshed)
		}
		return nil
	}
	if err := warmer.Start(); err != nil {
		return fmt.Errorf("starting warm-up scheduler: %w", err)
	}
	defer warmer.Stop()

	// Templates
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := theme.NewRenderer(templatesFS, theme.Funcs(), logger)
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sessionManager := session.New(cfg.IsDevelopment())
	slog.Info("session manager initialized")

	blogHandler := handler.NewBlogHandler(handler.BlogOptions{
		Content:     contentClient,
		Renderer:    renderer,
		Markdown:    markdown.New(),
		Sessions:    sessionManager,
		Submissions: cacher,
		PageSize:    cfg.PageSize,
		MaxRelated:  cfg.MaxRelated,
		Logger:      logger,
	})
	healthHandler := handler.NewHealthHandler(contentClient, cacher, versionInfo.String())

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret)[:config.MinSessionSecretLength],
		cfg.IsDevelopment(),
		cfg.ServerAddr(),
		fmt.Sprintf("localhost:%d", cfg.ServerPort),
		fmt.Sprintf("127.0.0.1:%d", cfg.ServerPort),
	))
	commentLimiter := middleware.NewRateLimiter(cfg.CommentRateLimit, cfg.CommentBurst)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.ResolveTenant(resolver))
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(securityConfig))
	r.Use(sessionManager.LoadAndSave)

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Static files
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(staticMaxAge)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	registerBlogRoutes(r, blogHandler, commentLimiter, csrfMiddleware)

	r.NotFound(blogHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
