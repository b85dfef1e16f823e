// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/testutil"
)

func newTestClient(t *testing.T, api *testutil.ContentAPI, withCache bool) *Client {
	t.Helper()
	opts := Options{
		BaseURL:   api.URL(),
		Timeout:   2 * time.Second,
		UserAgent: "tenantblog-test",
		Logger:    testutil.TestLoggerSilent(),
	}
	if withCache {
		mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
		t.Cleanup(func() { _ = mc.Close() })
		opts.Cache = mc
		opts.CacheTTL = time.Minute
	}
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func samplePosts() []model.Post {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []model.Post{
		{ID: "1", Slug: "older", Title: "Older", Status: model.StatusPublished, PublishedAt: base},
		{ID: "2", Slug: "newest", Title: "Newest", Status: model.StatusPublished, PublishedAt: base.Add(48 * time.Hour)},
		{ID: "3", Slug: "middle", Title: "Middle", Status: model.StatusPublished, PublishedAt: base.Add(24 * time.Hour)},
	}
}

func slugs(posts []model.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "api.local", "/api"} {
		_, err := New(Options{BaseURL: raw})
		assert.Error(t, err, "base URL %q", raw)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New(Options{BaseURL: "https://api.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", c.BaseURL())
}

func TestListPosts_EnvelopesAreEquivalent(t *testing.T) {
	var results [][]string
	for _, env := range []string{testutil.EnvelopeBlogs, testutil.EnvelopeData, testutil.EnvelopeBare} {
		api := testutil.NewContentAPI(t)
		api.SetEnvelope(env)
		api.AddPosts("eneza", samplePosts()...)

		c := newTestClient(t, api, false)
		posts, err := c.ListPosts(context.Background(), "eneza", "")
		require.NoError(t, err, "envelope %q", env)
		results = append(results, slugs(posts))
	}

	assert.Equal(t, []string{"newest", "middle", "older"}, results[0])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
}

func TestListPosts_SendsQuery(t *testing.T) {
	api := testutil.NewContentAPI(t)
	c := newTestClient(t, api, false)

	_, err := c.ListPosts(context.Background(), "yebolink", "")
	require.NoError(t, err)

	reqs := api.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/blogs", reqs[0].Path)
	assert.Contains(t, reqs[0].Query, "company=yebolink")
	assert.Contains(t, reqs[0].Query, "status=PUBLISHED")
	assert.Contains(t, reqs[0].Query, "limit=100")
	assert.Equal(t, "tenantblog-test", reqs[0].Header.Get("User-Agent"))
}

func TestListPosts_NoPosts(t *testing.T) {
	api := testutil.NewContentAPI(t)
	c := newTestClient(t, api, false)

	posts, err := c.ListPosts(context.Background(), "eneza", "")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestListPosts_FailureReturnsEmptyAndError(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	api.Fail(500)
	c := newTestClient(t, api, false)

	posts, err := c.ListPosts(context.Background(), "eneza", "")
	require.Error(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "simulated failure", apiErr.Message)
	assert.True(t, apiErr.Temporary())
}

func TestListPosts_DropsUnusableRecords(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.SetEnvelope(testutil.EnvelopeBare)
	api.AddPosts("eneza",
		model.Post{Slug: "ok", Title: "OK"},
		model.Post{Slug: "", Title: "No slug"},
		model.Post{Slug: "ok", Title: "Duplicate"},
	)
	c := newTestClient(t, api, false)

	posts, err := c.ListPosts(context.Background(), "eneza", "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "OK", posts[0].Title)
	assert.Equal(t, "eneza", posts[0].TenantKey)
}

func TestListPosts_CachesSuccessOnly(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	c := newTestClient(t, api, true)
	ctx := context.Background()

	api.Fail(503)
	_, err := c.ListPosts(ctx, "eneza", "")
	require.Error(t, err)

	api.Fail(0)
	posts, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	again, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	assert.Equal(t, slugs(posts), slugs(again))
	assert.Equal(t, 2, api.RequestCount("GET", "/api/blogs"))
}

func TestListPosts_TenantsAreIsolated(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", model.Post{Slug: "eneza-post", Title: "E"})
	api.AddPosts("yebolink", model.Post{Slug: "yebo-post", Title: "Y"})
	c := newTestClient(t, api, true)
	ctx := context.Background()

	a, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	b, err := c.ListPosts(ctx, "yebolink", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"eneza-post"}, slugs(a))
	assert.Equal(t, []string{"yebo-post"}, slugs(b))
}

func TestListPosts_Canceled(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.SetDelay(time.Second)
	c := newTestClient(t, api, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts, err := c.ListPosts(ctx, "eneza", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, posts)
}

func TestGetPost(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	c := newTestClient(t, api, true)

	p, err := c.GetPost(context.Background(), "middle", "eneza")
	require.NoError(t, err)
	assert.Equal(t, "Middle", p.Title)
	assert.Equal(t, "eneza", p.TenantKey)

	_, err = c.GetPost(context.Background(), "middle", "eneza")
	require.NoError(t, err)
	assert.Equal(t, 1, api.RequestCount("GET", "/api/blogs/middle"))
}

func TestGetPost_NotFound(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	api.AddPosts("yebolink", model.Post{Slug: "draft", Title: "Draft", Status: "DRAFT"})
	c := newTestClient(t, api, false)
	ctx := context.Background()

	tests := []struct {
		name   string
		slug   string
		tenant string
	}{
		{"missing", "nope", "eneza"},
		{"other tenant", "middle", "yebolink"},
		{"unpublished", "draft", "yebolink"},
		{"traversal", "../etc", "eneza"},
		{"empty", "", "eneza"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetPost(ctx, tt.slug, tt.tenant)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGetPost_ServerErrorIsNotFound(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	api.Fail(502, "/api/blogs/")
	c := newTestClient(t, api, false)

	_, err := c.GetPost(context.Background(), "middle", "eneza")
	require.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestRefreshPosts(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()[:1]...)
	c := newTestClient(t, api, true)
	ctx := context.Background()

	posts, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	api.AddPosts("eneza", samplePosts()[1:]...)
	n, err := c.RefreshPosts(ctx, "eneza")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	posts, err = c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestRefreshPosts_PurgesTenantPosts(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	api.AddPosts("vavu", samplePosts()...)
	c := newTestClient(t, api, true)
	ctx := context.Background()

	for _, tenant := range []string{"eneza", "vavu"} {
		_, err := c.GetPost(ctx, "older", tenant)
		require.NoError(t, err)
		_, err = c.GetPost(ctx, "older", tenant)
		require.NoError(t, err)
	}
	require.Equal(t, 2, api.RequestCount(http.MethodGet, "/api/blogs/older"))

	_, err := c.RefreshPosts(ctx, "eneza")
	require.NoError(t, err)

	_, err = c.GetPost(ctx, "older", "eneza")
	require.NoError(t, err)
	_, err = c.GetPost(ctx, "older", "vavu")
	require.NoError(t, err)
	assert.Equal(t, 3, api.RequestCount(http.MethodGet, "/api/blogs/older"),
		"only the refreshed tenant's post is fetched again")
}

func TestRefreshPosts_FailureKeepsCache(t *testing.T) {
	api := testutil.NewContentAPI(t)
	api.AddPosts("eneza", samplePosts()...)
	c := newTestClient(t, api, true)
	ctx := context.Background()

	_, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)

	api.Fail(500)
	_, err = c.RefreshPosts(ctx, "eneza")
	require.Error(t, err)

	posts, err := c.ListPosts(ctx, "eneza", "")
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestPing(t *testing.T) {
	api := testutil.NewContentAPI(t)
	c := newTestClient(t, api, false)
	require.NoError(t, c.Ping(context.Background()))

	api.Fail(404)
	assert.NoError(t, c.Ping(context.Background()))

	api.Fail(503)
	assert.Error(t, c.Ping(context.Background()))
}
