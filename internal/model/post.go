// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"strings"
	"time"
)

// StatusPublished is the only post status the blog renders.
const StatusPublished = "PUBLISHED"

// Post is a blog article as served by the content API.
// Posts are read-only copies scoped to a single request.
type Post struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Excerpt          string    `json:"excerpt,omitempty"`
	Content          string    `json:"content,omitempty"`
	Category         string    `json:"category,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	FeaturedImageURL string    `json:"featuredImage,omitempty"`
	Status           string    `json:"status,omitempty"`
	PublishedAt      time.Time `json:"publishedAt,omitzero"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
	TenantKey        string    `json:"company,omitempty"`
}

// Date returns the publication date, falling back to the creation date.
// The zero time means the post carries neither.
func (p Post) Date() time.Time {
	if !p.PublishedAt.IsZero() {
		return p.PublishedAt
	}
	return p.CreatedAt
}

// LastModified returns the most recent of the post's timestamps.
func (p Post) LastModified() time.Time {
	t := p.Date()
	if p.UpdatedAt.After(t) {
		return p.UpdatedAt
	}
	return t
}

// IsPublished reports whether the post is published. Records without a
// status are assumed published, since the API was asked for published posts.
func (p Post) IsPublished() bool {
	return p.Status == "" || strings.EqualFold(p.Status, StatusPublished)
}

// UnmarshalJSON decodes a post leniently: ids may be numbers or strings,
// timestamps may be RFC 3339, date-only or epoch milliseconds, and the
// image and category fields accept the aliases the API has used over time.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               flexString `json:"id"`
		UnderscoreID     flexString `json:"_id"`
		Slug             string     `json:"slug"`
		Title            string     `json:"title"`
		Excerpt          string     `json:"excerpt"`
		Summary          string     `json:"summary"`
		Content          string     `json:"content"`
		Category         flexName   `json:"category"`
		Tags             flexTags   `json:"tags"`
		FeaturedImage    string     `json:"featuredImage"`
		FeaturedImageURL string     `json:"featuredImageUrl"`
		CoverImage       string     `json:"coverImage"`
		Status           string     `json:"status"`
		PublishedAt      flexTime   `json:"publishedAt"`
		CreatedAt        flexTime   `json:"createdAt"`
		UpdatedAt        flexTime   `json:"updatedAt"`
		Company          flexName   `json:"company"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Post{
		ID:               firstNonEmpty(string(raw.ID), string(raw.UnderscoreID)),
		Slug:             raw.Slug,
		Title:            raw.Title,
		Excerpt:          firstNonEmpty(raw.Excerpt, raw.Summary),
		Content:          raw.Content,
		Category:         string(raw.Category),
		Tags:             []string(raw.Tags),
		FeaturedImageURL: firstNonEmpty(raw.FeaturedImage, raw.FeaturedImageURL, raw.CoverImage),
		Status:           raw.Status,
		PublishedAt:      time.Time(raw.PublishedAt),
		CreatedAt:        time.Time(raw.CreatedAt),
		UpdatedAt:        time.Time(raw.UpdatedAt),
		TenantKey:        strings.ToLower(string(raw.Company)),
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
