// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Empty(t *testing.T) {
	r := New()
	assert.Equal(t, "", string(r.Render("")))
	assert.Equal(t, "", string(r.Render("  \n\t")))
}

func TestRender_Markdown(t *testing.T) {
	r := New()
	out := string(r.Render("# Hello World\n\nSome **bold** text.\n\n- one\n- two\n"))

	assert.Contains(t, out, `<h1 id="hello-world">Hello World</h1>`)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<li>one</li>")
}

func TestRender_GFMTable(t *testing.T) {
	r := New()
	out := string(r.Render("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestRender_Sanitizes(t *testing.T) {
	r := New()
	out := string(r.Render("Hi <script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>\n\n<img src=x onerror=alert(1)>"))

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "onerror")
}

func TestRender_AllowsSafeHTML(t *testing.T) {
	r := New()
	out := string(r.Render("<p>Inline <em>html</em> body</p>"))
	assert.Contains(t, out, "<em>html</em>")
}

func TestRender_ExternalLinks(t *testing.T) {
	r := New()
	out := string(r.Render("[site](https://example.com)"))
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, `target="_blank"`)
}

func TestRender_DuplicateHeadingIDs(t *testing.T) {
	r := New()
	out := string(r.Render("## Intro\n\n## Intro\n\n## Intro\n"))

	assert.Contains(t, out, `id="intro"`)
	assert.Contains(t, out, `id="intro-1"`)
	assert.Contains(t, out, `id="intro-2"`)
}

func TestRender_TransliteratedHeadingID(t *testing.T) {
	r := New()
	out := string(r.Render("## Café Résumé\n"))
	assert.Contains(t, out, `id="cafe-resume"`)
}

func TestPlainText(t *testing.T) {
	r := New()
	got := r.PlainText("# Title\n\nA *quick*   fox &amp; friends.\n")
	assert.Equal(t, "Title A quick fox & friends.", got)
}

func TestSummary(t *testing.T) {
	r := New()
	src := "The quick brown fox jumps over the lazy dog."

	assert.Equal(t, src, r.Summary(src, 0))
	assert.Equal(t, src, r.Summary(src, 100))

	got := r.Summary(src, 12)
	assert.Equal(t, "The quick…", got)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestSummary_DecodesEntities(t *testing.T) {
	r := New()

	got := r.Summary("Fish &amp; chips and more words", 16)
	assert.Equal(t, "Fish & chips…", got)
	assert.NotContains(t, got, "&amp;")
}
