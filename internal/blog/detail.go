// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import (
	"github.com/olegiv/tenantblog/internal/model"
)

// DefaultMaxRelated caps the "More articles" section.
const DefaultMaxRelated = 3

// Detail is the derived data for a single post page.
type Detail struct {
	Post            model.Post
	ReadTimeMinutes int
	Related         []model.Post
}

// AssembleDetail derives read time and related posts for post. Related
// posts are the first maxRelated entries of allPosts whose slug differs
// from currentSlug, in their existing order.
func AssembleDetail(post model.Post, allPosts []model.Post, currentSlug string, maxRelated int) Detail {
	return Detail{
		Post:            post,
		ReadTimeMinutes: ReadTimeMinutes(post.Content),
		Related:         Related(allPosts, currentSlug, maxRelated),
	}
}

// Related returns up to limit posts from all, skipping currentSlug.
func Related(all []model.Post, currentSlug string, limit int) []model.Post {
	related := make([]model.Post, 0, max(0, min(limit, len(all))))
	if limit <= 0 {
		return related
	}
	for _, p := range all {
		if p.Slug == currentSlug {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related
}

// FindBySlug returns the post with slug from posts.
func FindBySlug(posts []model.Post, slug string) (model.Post, bool) {
	for _, p := range posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return model.Post{}, false
}
