// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/tenant"
)

// DefaultFeedItems is the number of posts included in the RSS feed.
const DefaultFeedItems = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	AtomLink      atomLink  `xml:"atom:link"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        rssGUID  `xml:"guid"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// GenerateFeed builds an RSS 2.0 feed of the newest limit published posts.
// posts are expected newest first.
func GenerateFeed(t tenant.Config, siteURL string, posts []model.Post, limit int) ([]byte, error) {
	base := strings.TrimSuffix(siteURL, "/")
	if limit <= 0 {
		limit = DefaultFeedItems
	}

	description := t.Description
	if description == "" {
		description = t.Tagline
	}

	items := make([]rssItem, 0, min(limit, len(posts)))
	var lastBuild time.Time
	for _, p := range posts {
		if len(items) == limit {
			break
		}
		if !p.IsPublished() {
			continue
		}

		postURL := PostURL(base, p.Slug)
		item := rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: PostDescription(p),
			GUID:        rssGUID{Value: postURL, IsPermaLink: true},
		}
		if p.Category != "" {
			item.Categories = []string{p.Category}
		}
		if d := p.Date(); !d.IsZero() {
			item.PubDate = d.UTC().Format(time.RFC1123Z)
		}
		if lm := p.LastModified(); lm.After(lastBuild) {
			lastBuild = lm
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       ListingTitle(t),
			AtomLink:    atomLink{Href: base + "/feed.xml", Rel: "self", Type: "application/rss+xml"},
			Link:        base + "/",
			Description: description,
			Language:    "en",
			Items:       items,
		},
	}
	if !lastBuild.IsZero() {
		feed.Channel.LastBuildDate = lastBuild.UTC().Format(time.RFC1123Z)
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
