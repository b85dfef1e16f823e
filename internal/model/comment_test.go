// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_UnmarshalJSON(t *testing.T) {
	var c Comment
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 9,
		"author": "Thandi",
		"content": "Great read",
		"createdAt": "2025-04-01T08:30:00Z",
		"slug": "status-ads-101",
		"company": "eneza"
	}`), &c))

	assert.Equal(t, "9", c.ID)
	assert.Equal(t, "Thandi", c.Name)
	assert.Equal(t, "Great read", c.Body)
	assert.Equal(t, "status-ads-101", c.PostSlug)
	assert.Equal(t, "eneza", c.TenantKey)
	assert.Equal(t, time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC), c.CreatedAt)
}

func TestComment_PrefersCanonicalFields(t *testing.T) {
	var c Comment
	require.NoError(t, json.Unmarshal([]byte(`{"name":"A","author":"B","body":"x","content":"y"}`), &c))
	assert.Equal(t, "A", c.Name)
	assert.Equal(t, "x", c.Body)
}
