// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/tenantblog/internal/model"
)

func TestAssembleDetail(t *testing.T) {
	all := makePosts(6)
	current := all[2]
	current.Content = words(600)

	d := AssembleDetail(current, all, current.Slug, 3)

	assert.Equal(t, 3, d.ReadTimeMinutes)
	assert.Equal(t, []string{"post-01", "post-02", "post-04"}, slugs(d.Related))
	assert.Equal(t, current.Slug, d.Post.Slug)
}

func TestRelated_NeverIncludesCurrent(t *testing.T) {
	all := makePosts(10)
	for _, p := range all {
		for limit := 0; limit <= 12; limit++ {
			related := Related(all, p.Slug, limit)
			assert.LessOrEqual(t, len(related), limit)
			for _, r := range related {
				assert.NotEqual(t, p.Slug, r.Slug)
			}
		}
	}
}

func TestRelated_FewerCandidates(t *testing.T) {
	all := makePosts(2)
	assert.Equal(t, []string{"post-02"}, slugs(Related(all, "post-01", 3)))
	assert.Empty(t, Related(all[:1], "post-01", 3))
	assert.Empty(t, Related(nil, "x", 3))
}

func TestFindBySlug(t *testing.T) {
	all := makePosts(3)

	p, ok := FindBySlug(all, "post-02")
	require.True(t, ok)
	assert.Equal(t, "Post 2", p.Title)

	_, ok = FindBySlug(all, "missing")
	assert.False(t, ok)
}

func TestShareLinks(t *testing.T) {
	links := ShareLinks("https://blog.eneza.app/posts/a b", "Hello & welcome")
	require.Len(t, links, 5)

	networks := make([]string, len(links))
	for i, l := range links {
		networks[i] = l.Network
		if l.Network != "email" {
			_, err := url.Parse(l.URL)
			assert.NoError(t, err, l.Network)
		}
	}
	assert.Equal(t, []string{"x", "linkedin", "facebook", "whatsapp", "email"}, networks)

	assert.True(t, strings.HasPrefix(links[0].URL, "https://twitter.com/intent/tweet?url=https%3A%2F%2Fblog.eneza.app"))
	assert.Contains(t, links[0].URL, "text=Hello+%26+welcome")
	assert.NotContains(t, links[2].URL, " ")
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateFetchFailed, StateOf(nil, assert.AnError))
	assert.Equal(t, StateFetchFailed, StateOf(makePosts(2), assert.AnError))
	assert.Equal(t, StateEmpty, StateOf([]model.Post{}, nil))
	assert.Equal(t, StateLoaded, StateOf(makePosts(1), nil))
	assert.Equal(t, "fetch_failed", StateFetchFailed.String())
}
