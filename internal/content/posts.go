// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/olegiv/tenantblog/internal/blog"
	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/util"
)

// ListPosts returns the tenant's posts with the given status, newest first.
//
// It never returns a nil slice. On failure the slice is empty and the error
// says why, so callers can tell "no posts" from "fetch failed". Records
// carrying a different status are dropped. Failures are never cached.
func (c *Client) ListPosts(ctx context.Context, tenantKey, status string) ([]model.Post, error) {
	if status == "" {
		status = model.StatusPublished
	}

	fetch := func() (*[]model.Post, error) {
		posts, err := c.fetchPosts(ctx, tenantKey, status)
		if err != nil {
			return nil, err
		}
		return &posts, nil
	}

	var (
		result *[]model.Post
		err    error
	)
	if c.postLists != nil {
		result, err = c.postLists.GetOrSet(ctx, cache.PostsKey(tenantKey, status), fetch)
	} else {
		result, err = fetch()
	}
	if err != nil {
		if !isCanceled(err) {
			c.logger.Warn("listing posts failed", "tenant", tenantKey, "error", err)
		}
		return []model.Post{}, fmt.Errorf("list posts for %q: %w", tenantKey, err)
	}
	return *result, nil
}

func (c *Client) fetchPosts(ctx context.Context, tenantKey, status string) ([]model.Post, error) {
	q := url.Values{
		"company": {tenantKey},
		"status":  {status},
		"limit":   {itoa(c.listLimit)},
	}
	data, err := c.getJSON(ctx, "/api/blogs", q)
	if err != nil {
		return nil, err
	}

	raw, err := decodeList[model.Post](data, "blogs", "data", "posts")
	if err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return normalizePosts(raw, tenantKey, status), nil
}

// normalizePosts drops records that are unusable or belong to another
// status, stamps the tenant key, and sorts newest first.
func normalizePosts(raw []model.Post, tenantKey, status string) []model.Post {
	posts := make([]model.Post, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		if p.Slug == "" {
			continue
		}
		if p.Status != "" && !strings.EqualFold(p.Status, status) {
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			continue
		}
		seen[p.Slug] = struct{}{}
		if p.TenantKey == "" {
			p.TenantKey = tenantKey
		}
		posts = append(posts, p)
	}
	blog.SortNewestFirst(posts)
	return posts
}

// GetPost fetches one post by slug. Every failure, including a post that
// belongs to another tenant or is unpublished, wraps ErrNotFound.
func (c *Client) GetPost(ctx context.Context, slug, tenantKey string) (model.Post, error) {
	if !util.IsSafePathSegment(slug) {
		return model.Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}

	fetch := func() (*model.Post, error) {
		p, err := c.fetchPost(ctx, slug, tenantKey)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}

	var (
		result *model.Post
		err    error
	)
	if c.posts != nil {
		result, err = c.posts.GetOrSet(ctx, cache.PostKey(tenantKey, slug), fetch)
	} else {
		result, err = fetch()
	}
	if err != nil {
		if !isCanceled(err) {
			c.logger.LogAttrs(ctx, slog.LevelDebug, "post lookup failed",
				slog.String("tenant", tenantKey), slog.String("slug", slug), slog.Any("error", err))
		}
		return model.Post{}, fmt.Errorf("post %q: %w: %w", slug, ErrNotFound, err)
	}
	return *result, nil
}

func (c *Client) fetchPost(ctx context.Context, slug, tenantKey string) (model.Post, error) {
	data, err := c.getJSON(ctx, "/api/blogs/"+url.PathEscape(slug), url.Values{"company": {tenantKey}})
	if err != nil {
		return model.Post{}, err
	}

	p, err := decodeOne[model.Post](data, "blog", "data", "post")
	if err != nil {
		return model.Post{}, fmt.Errorf("decode post: %w", err)
	}
	switch {
	case p.Slug == "" && p.Title == "":
		return model.Post{}, errors.New("empty post record")
	case p.TenantKey != "" && p.TenantKey != tenantKey:
		return model.Post{}, fmt.Errorf("post belongs to tenant %q", p.TenantKey)
	case !p.IsPublished():
		return model.Post{}, fmt.Errorf("post status is %q", p.Status)
	}
	if p.Slug == "" {
		p.Slug = slug
	}
	p.TenantKey = tenantKey
	return p, nil
}

// RefreshPosts fetches the tenant's published posts, overwrites the cached
// list and drops the tenant's cached single posts so edits and unpublished
// posts are picked up. A failed fetch leaves the cache untouched.
func (c *Client) RefreshPosts(ctx context.Context, tenantKey string) (int, error) {
	posts, err := c.fetchPosts(ctx, tenantKey, model.StatusPublished)
	if err != nil {
		return 0, fmt.Errorf("refresh posts for %q: %w", tenantKey, err)
	}
	if c.postLists != nil {
		if err := c.postLists.Set(ctx, cache.PostsKey(tenantKey, model.StatusPublished), &posts); err != nil {
			return len(posts), fmt.Errorf("caching posts for %q: %w", tenantKey, err)
		}
	}
	if c.purger != nil {
		if err := c.purger.DeleteByPrefix(ctx, cache.TenantPrefix(cache.NamespacePost, tenantKey)); err != nil {
			return len(posts), fmt.Errorf("purging cached posts for %q: %w", tenantKey, err)
		}
	}
	return len(posts), nil
}
