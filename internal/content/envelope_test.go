// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []item
	}{
		{"bare array", `[{"name":"a"},{"name":"b"}]`, []item{{"a"}, {"b"}}},
		{"first key", `{"blogs":[{"name":"a"}]}`, []item{{"a"}}},
		{"second key", `{"data":[{"name":"b"}]}`, []item{{"b"}}},
		{"null key skipped", `{"blogs":null,"data":[{"name":"c"}]}`, []item{{"c"}}},
		{"no known key", `{"total":0}`, []item{}},
		{"empty array", `[]`, []item{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList[item]([]byte(tt.body), "blogs", "data")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeList_Errors(t *testing.T) {
	for _, body := range []string{"", "not json", `{"blogs":"x"}`} {
		_, err := decodeList[item]([]byte(body), "blogs")
		assert.Error(t, err, "body %q", body)
	}
}

func TestDecodeOne(t *testing.T) {
	wrapped, err := decodeOne[item]([]byte(`{"blog":{"name":"a"}}`), "blog", "data")
	require.NoError(t, err)
	assert.Equal(t, item{"a"}, wrapped)

	bare, err := decodeOne[item]([]byte(`{"name":"b"}`), "blog", "data")
	require.NoError(t, err)
	assert.Equal(t, item{"b"}, bare)

	_, err = decodeOne[item]([]byte(`[1]`), "blog")
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"error":"Blog not found"}`, "Blog not found"},
		{`{"error":{"message":"nested"}}`, "nested"},
		{`{"message":"plain"}`, "plain"},
		{`<html>`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorMessage([]byte(tt.body)), tt.body)
	}
}
