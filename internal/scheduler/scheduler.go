// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic cache warm-up that refreshes every
// tenant's post listing before the cached copy expires.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentRefreshes bounds parallel requests to the content API.
const maxConcurrentRefreshes = 4

// DefaultRefreshTimeout bounds a single tenant refresh.
const DefaultRefreshTimeout = 30 * time.Second

// Refresher reloads a tenant's published posts into the cache.
type Refresher interface {
	RefreshPosts(ctx context.Context, tenantKey string) (int, error)
}

// Result summarizes one warm-up run.
type Result struct {
	Refreshed int
	Failed    int
	Posts     int
}

// Scheduler handles the cache warm-up job.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	keys      []string
	schedule  string
	timeout   time.Duration
	logger    *slog.Logger
	started   atomic.Bool
}

// New creates a scheduler that refreshes the given tenant keys on schedule
// (standard 5-field cron). An empty schedule disables the job.
func New(refresher Refresher, keys []string, schedule string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		keys:      keys,
		schedule:  schedule,
		timeout:   DefaultRefreshTimeout,
		logger:    logger,
	}
}

// Start registers the warm-up job and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("cache warm-up disabled")
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.WarmUp(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.started.Store(true)
	s.logger.Info("scheduler started", "schedule", s.schedule, "tenants", len(s.keys))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	if !s.started.Load() {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// NextRun returns the next scheduled run, or the zero time when the job
// is not registered.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// WarmUp refreshes every tenant once. Failures are logged and counted;
// the previous cached listing of a failed tenant stays in place.
func (s *Scheduler) WarmUp(ctx context.Context) Result {
	start := time.Now()
	var refreshed, failed, posts atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRefreshes)
	for _, key := range s.keys {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			n, err := s.refresher.RefreshPosts(rctx, key)
			if err != nil {
				failed.Add(1)
				s.logger.Warn("cache warm-up failed", "tenant", key, "error", err)
				return nil
			}
			refreshed.Add(1)
			posts.Add(int64(n))
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		Refreshed: int(refreshed.Load()),
		Failed:    int(failed.Load()),
		Posts:     int(posts.Load()),
	}
	s.logger.Info("cache warm-up finished",
		"refreshed", res.Refreshed,
		"failed", res.Failed,
		"posts", res.Posts,
		"duration", time.Since(start),
	)
	return res
}
