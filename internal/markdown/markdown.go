// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders post bodies to sanitized HTML.
package markdown

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/tenantblog/internal/util"
)

// Renderer converts Markdown (with inline HTML) to HTML that is safe to
// embed in a page. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strict *bluemonday.Policy
}

// New creates a Renderer with GFM, typographic punctuation and heading ids.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			// Raw HTML is allowed through goldmark and cleaned by bluemonday.
			gmhtml.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Renderer{
		md:     md,
		policy: policy,
		strict: bluemonday.StrictPolicy(),
	}
}

// Render returns the sanitized HTML for src. Empty input yields empty HTML.
// Content that fails to parse is rendered as escaped text.
func (r *Renderer) Render(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	var buf bytes.Buffer
	pctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := r.md.Convert([]byte(src), &buf, parser.WithContext(pctx)); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}

	// #nosec G203 -- output is sanitized by bluemonday
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// PlainText renders src and strips every tag, collapsing whitespace.
func (r *Renderer) PlainText(src string) string {
	rendered := r.Render(src)
	if rendered == "" {
		return ""
	}
	text := r.strict.Sanitize(string(rendered))
	return strings.Join(strings.Fields(stdhtml.UnescapeString(text)), " ")
}

// Summary returns the first limit runes of the plain text, cut at a word
// boundary and suffixed with an ellipsis when shortened.
func (r *Renderer) Summary(src string, limit int) string {
	text := r.PlainText(src)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}

// headingIDs generates heading anchors with util.Slugify so that
// non-Latin headings still get readable ids.
type headingIDs struct {
	used map[string]int
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{used: map[string]int{}}
}

// Generate implements parser.IDs.
func (s *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := util.Slugify(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "heading"
		} else {
			base = "id"
		}
	}

	id := base
	if n, ok := s.used[base]; ok {
		for {
			n++
			id = base + "-" + strconv.Itoa(n)
			if _, taken := s.used[id]; !taken {
				break
			}
		}
		s.used[base] = n
	}
	s.used[id] = 0
	return []byte(id)
}

// Put implements parser.IDs.
func (s *headingIDs) Put(value []byte) {
	if _, ok := s.used[string(value)]; !ok {
		s.used[string(value)] = 0
	}
}
