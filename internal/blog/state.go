// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import "github.com/olegiv/tenantblog/internal/model"

// LoadState distinguishes why a listing has or lacks content.
type LoadState int

// Listing states. StateLoading only exists while a fetch is pending, which
// a server-rendered page never shows.
const (
	StateLoading LoadState = iota
	StateEmpty
	StateFetchFailed
	StateLoaded
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateFetchFailed:
		return "fetch_failed"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

// StateOf classifies a completed fetch.
func StateOf(posts []model.Post, err error) LoadState {
	switch {
	case err != nil:
		return StateFetchFailed
	case len(posts) == 0:
		return StateEmpty
	default:
		return StateLoaded
	}
}
