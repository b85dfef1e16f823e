// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

// Breadcrumb represents a single breadcrumb item.
type Breadcrumb struct {
	Label  string
	URL    string
	Active bool
}

// BackLink returns the single-item trail pointing back to a listing.
func BackLink(label, url string) []Breadcrumb {
	return []Breadcrumb{{Label: label, URL: url}}
}
