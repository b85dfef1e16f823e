// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// minInterval is the shortest allowed gap between warm-up runs.
const minInterval = time.Minute

// ValidateSchedule checks that spec is a standard 5-field cron expression
// (or a descriptor such as "@every 10m") firing at most once a minute.
func ValidateSchedule(spec string) error {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid warm-up schedule %q: %w", spec, err)
	}

	first := sched.Next(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	second := sched.Next(first)
	if second.Sub(first) < minInterval {
		return fmt.Errorf("warm-up schedule %q runs more often than every %s", spec, minInterval)
	}
	return nil
}
