// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned by GetPost for any failure to produce a post.
	ErrNotFound = errors.New("post not found")

	// ErrInvalidComment is matched by *ValidationError.
	ErrInvalidComment = errors.New("invalid comment")
)

// APIError is a non-2xx response from the content API. Message carries
// the API's {"error": "..."} text when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("content api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("content api: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the same request later may succeed.
func (e *APIError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// ValidationError lists per-field problems with a comment submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid comment: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInvalidComment) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidComment
}
