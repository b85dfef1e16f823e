// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import (
	"strings"
	"testing"
	"time"

	"github.com/olegiv/tenantblog/internal/model"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestReadTimeMinutes(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty", 0, 1},
		{"one word", 1, 1},
		{"exactly 200", 200, 1},
		{"just under half above", 299, 1},
		{"half rounds up", 300, 2},
		{"400", 400, 2},
		{"499", 499, 2},
		{"500 rounds up", 500, 3},
		{"long read", 2000, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadTimeMinutes(words(tt.words)); got != tt.want {
				t.Errorf("ReadTimeMinutes(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}

func TestReadTimeMinutes_NeverBelowOne(t *testing.T) {
	for n := 0; n <= 200; n++ {
		if got := ReadTimeMinutes(words(n)); got != 1 {
			t.Fatalf("ReadTimeMinutes(%d words) = %d, want 1", n, got)
		}
	}
}

func TestWordCount_CollapsesWhitespace(t *testing.T) {
	if got := WordCount("  one\ttwo\n\nthree   "); got != 3 {
		t.Errorf("WordCount() = %d, want 3", got)
	}
	if got := WordCount("   "); got != 0 {
		t.Errorf("WordCount(blank) = %d, want 0", got)
	}
}

func TestDisplayDate(t *testing.T) {
	published := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	created := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		post   model.Post
		layout string
		want   string
	}{
		{"published short", model.Post{PublishedAt: published, CreatedAt: created}, DateLayoutShort, "Mar 4, 2025"},
		{"published long", model.Post{PublishedAt: published}, DateLayoutLong, "March 4, 2025"},
		{"created fallback", model.Post{CreatedAt: created}, DateLayoutShort, "Dec 25, 2024"},
		{"no dates", model.Post{}, DateLayoutLong, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayDate(tt.post, tt.layout); got != tt.want {
				t.Errorf("DisplayDate() = %q, want %q", got, tt.want)
			}
		})
	}
}
