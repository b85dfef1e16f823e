// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package theme renders the blog pages. Templates are parsed once from an
// fs.FS laid out as layouts/, partials/ and pages/; every page is composed
// into layouts/base.html and branded with the tenant's Palette.
package theme

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"
)

const baseLayout = "layouts/base.html"

// blankLinesRegex matches two or more consecutive newlines (with optional whitespace between).
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

// Renderer holds one ready-to-execute template set per page.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses the templates in fsys. funcs is merged into the
// function map before parsing.
func NewRenderer(fsys fs.FS, funcs template.FuncMap, logger *slog.Logger) (*Renderer, error) {
	root, err := parseTemplates(fsys, funcs)
	if err != nil {
		return nil, err
	}
	if root.Lookup(baseLayout) == nil {
		return nil, fmt.Errorf("base layout not found")
	}

	pageFiles, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles)), logger: logger}
	for _, f := range pageFiles {
		name := strings.TrimSuffix(path.Base(f), ".html")

		// Clone the shared set so {{template "content" .}} in base.html
		// resolves to this page's content block.
		clone, err := root.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning templates for %s: %w", name, err)
		}
		contentDef := fmt.Sprintf(`{{define "content"}}{{template "%s" .}}{{end}}`, contentName(name))
		if _, err := clone.Parse(contentDef); err != nil {
			return nil, fmt.Errorf("parsing content definition for %s: %w", name, err)
		}
		r.pages[name] = clone
	}

	logger.Debug("templates loaded", "pages", len(r.pages))
	return r, nil
}

// parseTemplates parses layouts (by relative path), partials (by file name)
// and pages. Each page's {{define "content"}} block is renamed to
// content_<page> so all pages can share one set.
func parseTemplates(fsys fs.FS, funcs template.FuncMap) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcs)

	layouts, err := fs.Glob(fsys, "layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}
	for _, f := range layouts {
		content, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading layout %s: %w", f, err)
		}
		if _, err := tmpl.New(f).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parsing layout %s: %w", f, err)
		}
	}

	partials, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}
	for _, f := range partials {
		content, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading partial %s: %w", f, err)
		}
		// Partials are referenced by file name: {{template "nav.html" .}}
		if _, err := tmpl.New(path.Base(f)).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parsing partial %s: %w", f, err)
		}
	}

	pages, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	for _, f := range pages {
		content, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading page %s: %w", f, err)
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		wrapped := strings.Replace(
			string(content),
			`{{define "content"}}`,
			fmt.Sprintf(`{{define "%s"}}`, contentName(name)),
			1,
		)
		if _, err := tmpl.New(f).Parse(wrapped); err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", f, err)
		}
	}

	return tmpl, nil
}

func contentName(page string) string {
	return "content_" + page
}

// Has reports whether a page template exists.
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// RenderPage renders a page within the base layout. Output is buffered, so
// nothing is written to w when execution fails.
func (r *Renderer) RenderPage(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("content template not found: %s", contentName(page))
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseLayout, data); err != nil {
		return fmt.Errorf("rendering %s: %w", page, err)
	}

	compacted := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))
	_, err := w.Write(compacted)
	return err
}
