// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: slug generation with
// Unicode transliteration, tag labels, path safety checks and client IP
// extraction.
package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugRegex matches non-alphanumeric characters (except hyphens)
	slugRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug.
// Accents are stripped, remaining non-Latin scripts are transliterated to
// ASCII, and everything except letters, digits and hyphens is dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	if !isASCII(result) {
		result = unidecode.Unidecode(result)
	}

	result = strings.ToLower(result)
	result = strings.Join(strings.Fields(result), "-")
	result = slugRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// TagLabel formats a post tag for display: "#" followed by the tag in lower
// case with every whitespace run replaced by a single hyphen. Other
// characters are kept as-is. Blank tags yield "".
func TagLabel(tag string) string {
	fields := strings.Fields(strings.ToLower(tag))
	if len(fields) == 0 {
		return ""
	}
	return "#" + strings.Join(fields, "-")
}

// IsSafePathSegment reports whether s can be used as a single URL path
// segment when talking to upstream APIs. Post slugs are not always
// well-formed, so this is looser than Slugify output: it only rejects empty
// values, separators, control characters and traversal sequences.
func IsSafePathSegment(s string) bool {
	if s == "" || len(s) > 255 {
		return false
	}
	if strings.ContainsAny(s, `/\?#`) || ContainsPathTraversal(s) || s == "." {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
