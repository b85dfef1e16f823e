// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blog

import (
	"math"
	"strings"
	"time"

	"github.com/olegiv/tenantblog/internal/model"
)

// WordsPerMinute is the reading speed used for read-time estimates.
const WordsPerMinute = 200

// Date layouts for listing cards and the article header.
const (
	DateLayoutShort = "Jan 2, 2006"
	DateLayoutLong  = "January 2, 2006"
)

// WordCount counts whitespace-separated words in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadTimeMinutes estimates reading time: words / WordsPerMinute rounded
// half up, never less than one minute.
func ReadTimeMinutes(content string) int {
	minutes := int(math.Floor(float64(WordCount(content))/WordsPerMinute + 0.5))
	return max(1, minutes)
}

// DisplayDate formats the post date (published, else created) using layout.
// Posts with neither timestamp yield "".
func DisplayDate(p model.Post, layout string) string {
	return FormatDate(p.Date(), layout)
}

// FormatDate formats t with layout, or returns "" for the zero time.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
