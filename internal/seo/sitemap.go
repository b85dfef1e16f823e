// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/olegiv/tenantblog/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the blog.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds the sitemap of one tenant's blog.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the blog index. lastMod is the newest post's date.
func (b *SitemapBuilder) AddHomepage(lastMod time.Time) {
	url := SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	}
	if !lastMod.IsZero() {
		url.LastMod = lastMod.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddPost adds a post page to the sitemap.
func (b *SitemapBuilder) AddPost(p model.Post) {
	url := SitemapURL{
		Loc:        PostURL(b.siteURL, p.Slug),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if lm := p.LastModified(); !lm.IsZero() {
		url.LastMod = lm.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddPosts adds multiple posts to the sitemap.
func (b *SitemapBuilder) AddPosts(posts []model.Post) {
	for _, p := range posts {
		b.AddPost(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds a sitemap with the index and every published post.
// posts are expected newest first.
func GenerateSitemap(siteURL string, posts []model.Post) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)

	var newest time.Time
	published := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		published = append(published, p)
		if lm := p.LastModified(); lm.After(newest) {
			newest = lm
		}
	}

	builder.AddHomepage(newest)
	builder.AddPosts(published)
	return builder.Build()
}
