// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds page metadata, structured data, sitemaps and feeds for
// a tenant's blog. Everything here is a pure function of its inputs.
package seo

import (
	"encoding/json"
	"html"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/tenant"
)

// MaxDescriptionLength caps generated meta descriptions.
const MaxDescriptionLength = 160

// TitleSeparator joins page and site names in document titles.
const TitleSeparator = " — "

var textPolicy = bluemonday.StrictPolicy()

// PageMeta holds all SEO meta tag data for a page.
type PageMeta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute)
	OGType        string // Open Graph type (website, article)
	OGSiteName    string // Open Graph site name
	OGURL         string // Open Graph URL
	Robots        string // Robots directive (index,follow / noindex,nofollow)
	TwitterCard   string // Twitter card type
	ThemeColor    string // Browser theme color
	FeedURL       string // RSS alternate link

	// PublishedTime and ModifiedTime are set for articles (RFC 3339).
	PublishedTime string
	ModifiedTime  string
	Section       string
	Tags          []string
}

// ListingTitle is the document title of a tenant's blog index.
func ListingTitle(t tenant.Config) string {
	if t.Tagline == "" {
		return t.Name + " Blog"
	}
	return t.Name + " Blog" + TitleSeparator + t.Tagline
}

// PostTitle is the document title of a post page.
func PostTitle(t tenant.Config, p model.Post) string {
	return p.Title + TitleSeparator + t.Name
}

// ListingMeta returns the metadata of a tenant's blog index. baseURL is the
// public origin the page is served from.
func ListingMeta(t tenant.Config, baseURL string) PageMeta {
	baseURL = strings.TrimSuffix(baseURL, "/")
	description := t.Description
	if description == "" {
		description = t.Tagline
	}

	return PageMeta{
		Title:         ListingTitle(t),
		Description:   description,
		Canonical:     baseURL + "/",
		OGTitle:       t.Name + " Blog",
		OGDescription: description,
		OGType:        "website",
		OGSiteName:    t.Name,
		OGURL:         baseURL + "/",
		Robots:        buildRobotsDirective(t.Degraded, false),
		TwitterCard:   "summary",
		ThemeColor:    t.Color,
		FeedURL:       baseURL + "/feed.xml",
	}
}

// PostMeta returns the metadata of a post page.
func PostMeta(t tenant.Config, baseURL string, p model.Post) PageMeta {
	baseURL = strings.TrimSuffix(baseURL, "/")
	canonical := PostURL(baseURL, p.Slug)
	description := PostDescription(p)

	meta := PageMeta{
		Title:         PostTitle(t, p),
		Description:   description,
		Canonical:     canonical,
		OGTitle:       p.Title,
		OGDescription: description,
		OGType:        "article",
		OGSiteName:    t.Name,
		OGURL:         canonical,
		Robots:        buildRobotsDirective(t.Degraded, false),
		TwitterCard:   "summary",
		ThemeColor:    t.Color,
		FeedURL:       baseURL + "/feed.xml",
		Section:       p.Category,
		Tags:          p.Tags,
	}
	if p.FeaturedImageURL != "" {
		meta.OGImage = makeAbsoluteURL(p.FeaturedImageURL, baseURL)
		meta.TwitterCard = "summary_large_image"
	}
	if d := p.Date(); !d.IsZero() {
		meta.PublishedTime = d.Format(time.RFC3339)
	}
	if m := p.LastModified(); !m.IsZero() {
		meta.ModifiedTime = m.Format(time.RFC3339)
	}
	return meta
}

// PostURL is the canonical URL of a post.
func PostURL(baseURL, slug string) string {
	return strings.TrimSuffix(baseURL, "/") + "/posts/" + slug
}

// PostDescription is the excerpt, or the start of the body when the post
// has none.
func PostDescription(p model.Post) string {
	if s := strings.TrimSpace(p.Excerpt); s != "" {
		return truncateText(plainText(s), MaxDescriptionLength)
	}
	return truncateText(plainText(p.Content), MaxDescriptionLength)
}

// buildRobotsDirective creates the robots meta content from noindex/nofollow flags.
func buildRobotsDirective(noIndex, noFollow bool) string {
	var parts []string

	if noIndex {
		parts = append(parts, "noindex")
	} else {
		parts = append(parts, "index")
	}

	if noFollow {
		parts = append(parts, "nofollow")
	} else {
		parts = append(parts, "follow")
	}

	return strings.Join(parts, ",")
}

// BlogPostingSchema represents JSON-LD BlogPosting structured data.
type BlogPostingSchema struct {
	Context          string     `json:"@context"`
	Type             string     `json:"@type"`
	Headline         string     `json:"headline"`
	Description      string     `json:"description,omitempty"`
	Image            string     `json:"image,omitempty"`
	DatePublished    string     `json:"datePublished,omitempty"`
	DateModified     string     `json:"dateModified,omitempty"`
	ArticleSection   string     `json:"articleSection,omitempty"`
	Keywords         string     `json:"keywords,omitempty"`
	WordCount        int        `json:"wordCount,omitempty"`
	Author           *OrgSchema `json:"author,omitempty"`
	Publisher        *OrgSchema `json:"publisher,omitempty"`
	MainEntityOfPage string     `json:"mainEntityOfPage,omitempty"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// BlogSchema represents JSON-LD Blog structured data for the index page.
type BlogSchema struct {
	Context     string     `json:"@context"`
	Type        string     `json:"@type"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Publisher   *OrgSchema `json:"publisher,omitempty"`
}

// BuildBlogSchema creates JSON-LD Blog structured data for a tenant's index.
func BuildBlogSchema(t tenant.Config, baseURL string) template.JS {
	return marshalJSONLD(BlogSchema{
		Context:     "https://schema.org",
		Type:        "Blog",
		Name:        t.Name + " Blog",
		URL:         strings.TrimSuffix(baseURL, "/") + "/",
		Description: t.Description,
		Publisher:   organization(t),
	})
}

// BuildPostingSchema creates JSON-LD BlogPosting structured data for a post.
// The tenant is both author and publisher, matching the editorial byline.
func BuildPostingSchema(t tenant.Config, baseURL string, p model.Post, wordCount int) template.JS {
	posting := BlogPostingSchema{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         p.Title,
		Description:      PostDescription(p),
		ArticleSection:   p.Category,
		Keywords:         strings.Join(p.Tags, ", "),
		WordCount:        wordCount,
		Author:           organization(t),
		Publisher:        organization(t),
		MainEntityOfPage: PostURL(baseURL, p.Slug),
	}
	if p.FeaturedImageURL != "" {
		posting.Image = makeAbsoluteURL(p.FeaturedImageURL, baseURL)
	}
	if d := p.Date(); !d.IsZero() {
		posting.DatePublished = d.Format(time.RFC3339)
	}
	if m := p.LastModified(); !m.IsZero() {
		posting.DateModified = m.Format(time.RFC3339)
	}
	return marshalJSONLD(posting)
}

func organization(t tenant.Config) *OrgSchema {
	org := &OrgSchema{Type: "Organization", Name: t.Name}
	if strings.HasPrefix(t.WebsiteURL, "http") {
		org.URL = t.WebsiteURL
	}
	return org
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// plainText removes markup and collapses whitespace.
func plainText(s string) string {
	s = html.UnescapeString(textPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// truncateText truncates text to maxLen runes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	truncated := string([]rune(text)[:maxLen])
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if strings.HasPrefix(url, "//") {
		return "https:" + url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
