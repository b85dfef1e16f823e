// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import (
	"slices"

	"github.com/olegiv/tenantblog/internal/model"
)

// DefaultPageSize is the number of cards on one listing page.
const DefaultPageSize = 12

// Listing is one page of a tenant's post index.
type Listing struct {
	Hero       *model.Post
	Items      []model.Post
	Page       int
	PageSize   int
	TotalPages int
	// TotalPosts counts every post, including the hero.
	TotalPosts int
}

// HasPrev reports whether a previous page exists.
func (l Listing) HasPrev() bool { return l.Page > 1 }

// HasNext reports whether a following page exists.
func (l Listing) HasNext() bool { return l.Page < l.TotalPages }

// OutOfRange reports whether the requested page lies beyond the last page.
func (l Listing) OutOfRange() bool { return l.Page > max(l.TotalPages, 1) }

// AssembleListing builds page `page` of posts. Posts must already be
// filtered to published and sorted newest first. When withHero is set the
// first post is promoted to Hero and the rest are paginated.
//
// TotalPages is ceil(remaining/pageSize), zero when nothing remains. A page
// past the end yields no items. Page and pageSize below 1 are clamped to 1.
func AssembleListing(posts []model.Post, page, pageSize int, withHero bool) Listing {
	page = max(page, 1)
	pageSize = max(pageSize, 1)

	l := Listing{Page: page, PageSize: pageSize, TotalPosts: len(posts)}

	rest := posts
	if withHero && len(posts) > 0 {
		hero := posts[0]
		l.Hero = &hero
		rest = posts[1:]
	}

	l.TotalPages = (len(rest) + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= len(rest) {
		l.Items = []model.Post{}
		return l
	}
	end := min(start+pageSize, len(rest))
	l.Items = slices.Clone(rest[start:end])
	return l
}

// SortNewestFirst orders posts by date descending. The sort is stable, so
// posts with equal dates keep their API order. Undated posts sort last.
func SortNewestFirst(posts []model.Post) {
	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.Date().Compare(a.Date())
	})
}
