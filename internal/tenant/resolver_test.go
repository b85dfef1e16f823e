// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package tenant

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolveKey(t *testing.T) {
	res := NewResolver(DefaultRegistry(), "eneza")

	tests := []struct {
		name     string
		hostname string
		override string
		want     string
	}{
		{"blog subdomain", "blog.yebolink.com", "", "yebolink"},
		{"blog subdomain unregistered", "blog.acme.io", "", "acme"},
		{"first label", "vavu.app", "", "vavu"},
		{"first label deeper", "bamzu.example.co.za", "", "bamzu"},
		{"unknown host", "unknown.app", "", "unknown"},
		{"bare blog label", "blog", "", "blog"},
		{"localhost default", "localhost", "", "eneza"},
		{"loopback v4 default", "127.0.0.1", "", "eneza"},
		{"loopback v6 default", "::1", "", "eneza"},
		{"empty host default", "", "", "eneza"},
		{"localhost override", "localhost", "yebomart", "yebomart"},
		{"override lower-cased", "localhost", "YeboJobs", "yebojobs"},
		{"malformed override ignored", "localhost", "../etc", "eneza"},
		{"override ignored off-localhost", "blog.vavu.app", "bamzu", "vavu"},
		{"trailing dot", "blog.yebona.com.", "", "yebona"},
		{"case insensitive", "Blog.Eneza.App", "", "eneza"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := res.ResolveKey(HostContext{Hostname: tt.hostname, QueryOverride: tt.override})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_ConfigurableDefault(t *testing.T) {
	res := NewResolver(DefaultRegistry(), "yebolearn")
	got := res.Resolve(HostContext{Hostname: "localhost"})
	assert.Equal(t, "YeboLearn", got.Name)
}

func TestResolver_Resolve(t *testing.T) {
	reg, err := NewRegistry(acme())
	require.NoError(t, err)
	res := NewResolver(reg, "acme")

	got := res.Resolve(HostContext{Hostname: "blog.acme.app"})
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "#ff0000", got.Color)

	unknown := res.Resolve(HostContext{Hostname: "unknown.app"})
	assert.Equal(t, "unknown", unknown.Key)
	assert.Equal(t, "unknown", unknown.Name)
	assert.Equal(t, "#", unknown.WebsiteURL)
	assert.True(t, unknown.Degraded)
}

func TestResolver_HomeDomainTakesPrecedence(t *testing.T) {
	custom := acme()
	custom.Key = "acme"
	custom.HomeDomain = "news.acme-corp.com"
	reg, err := NewRegistry(custom)
	require.NoError(t, err)

	res := NewResolver(reg, "acme")
	assert.Equal(t, "acme", res.ResolveKey(HostContext{Hostname: "news.acme-corp.com"}))
	assert.Equal(t, "news", res.ResolveKey(HostContext{Hostname: "news.other.com"}))
}

func TestResolver_UsesOverride(t *testing.T) {
	res := NewResolver(DefaultRegistry(), "eneza")

	assert.True(t, res.UsesOverride(HostContext{Hostname: "localhost", QueryOverride: "vavu"}))
	assert.True(t, res.UsesOverride(HostContext{Hostname: "127.0.0.1", QueryOverride: "Acme"}))
	assert.False(t, res.UsesOverride(HostContext{Hostname: "localhost"}))
	assert.False(t, res.UsesOverride(HostContext{Hostname: "localhost", QueryOverride: "../x"}))
	assert.False(t, res.UsesOverride(HostContext{Hostname: "blog.vavu.app", QueryOverride: "bamzu"}))
}

func TestHostContextFromRequest(t *testing.T) {
	tests := []struct {
		host     string
		target   string
		wantHost string
		wantOver string
	}{
		{"blog.eneza.app", "/", "blog.eneza.app", ""},
		{"localhost:8080", "/?company=vavu", "localhost", "vavu"},
		{"[::1]:8080", "/posts/x?company=bamzu", "::1", "bamzu"},
		{"Blog.Vavu.App.", "/", "blog.vavu.app", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.target, nil)
		r.Host = tt.host
		hc := HostContextFromRequest(r)
		assert.Equal(t, tt.wantHost, hc.Hostname, tt.host)
		assert.Equal(t, tt.wantOver, hc.QueryOverride, tt.host)
	}
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithConfig(context.Background(), acme(), true)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "acme", got.Key)
	assert.True(t, OverrideFromContext(ctx))
	assert.False(t, OverrideFromContext(WithConfig(context.Background(), acme(), false)))
}
