// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"html/template"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/tenantblog/internal/blog"
	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/seo"
	"github.com/olegiv/tenantblog/internal/session"
	"github.com/olegiv/tenantblog/internal/tenant"
	"github.com/olegiv/tenantblog/internal/theme"
	"github.com/olegiv/tenantblog/internal/uikit"
)

// PageData is the data passed to every page template. Exactly one of
// Listing, Post and Error is set.
type PageData struct {
	Tenant    tenant.Config
	Palette   theme.Palette
	Meta      seo.PageMeta
	Schema    template.JS
	Links     Links
	Flash     *session.Flash
	Year      int
	RequestID string

	Listing *ListingView
	Post    *PostView
	Error   *ErrorView
}

// ListingView is the listing page model.
type ListingView struct {
	State      blog.LoadState
	Hero       *model.Post
	Items      []model.Post
	Page       int
	TotalPosts int
	Pagination uikit.Pagination
}

// Failed reports whether the listing could not be fetched.
func (v ListingView) Failed() bool { return v.State == blog.StateFetchFailed }

// Empty reports whether the tenant has no published posts.
func (v ListingView) Empty() bool { return v.State == blog.StateEmpty }

// PostView is the post page model.
type PostView struct {
	Post        model.Post
	Body        template.HTML
	ReadTime    int
	Date        string
	Related     []model.Post
	Share       []blog.ShareLink
	Breadcrumbs []uikit.Breadcrumb

	Comments       []model.Comment
	CommentsFailed bool
	Form           CommentForm
}

// CommentForm carries the comment form state across a failed submission.
type CommentForm struct {
	Action       string
	SubmissionID string
	Name         string
	Email        string
	Body         string

	// FieldErrors maps form fields to validation messages.
	FieldErrors map[string]string
	// Error is a retryable submission failure.
	Error string
}

// ErrorView is the model of the not-found and error pages.
type ErrorView struct {
	Status  int
	Title   string
	Message string
}

// Links builds in-site URLs. On local hosts a tenant chosen with the
// override parameter is carried along in every link.
type Links struct {
	override string
}

func newLinks(r *http.Request) Links {
	if t, ok := tenant.FromContext(r.Context()); ok && tenant.OverrideFromContext(r.Context()) {
		return Links{override: t.Key}
	}
	return Links{}
}

// Query returns the query parameters every link carries.
func (l Links) Query() url.Values {
	if l.override == "" {
		return nil
	}
	return url.Values{tenant.OverrideParam: {l.override}}
}

func (l Links) with(path string) string {
	if l.override == "" {
		return path
	}
	return path + "?" + l.Query().Encode()
}

// Home returns the listing URL.
func (l Links) Home() string { return l.with("/") }

// Post returns the URL of a post.
func (l Links) Post(slug string) string { return l.with("/posts/" + url.PathEscape(slug)) }

// Comments returns the comment form action of a post.
func (l Links) Comments(slug string) string {
	return l.with("/posts/" + url.PathEscape(slug) + "/comments")
}

// Feed returns the RSS feed URL.
func (l Links) Feed() string { return l.with("/feed.xml") }

// newPageData builds the fields shared by all pages. It pops the pending
// flash message, so call it once per response.
func (h *BlogHandler) newPageData(r *http.Request, t tenant.Config) PageData {
	data := PageData{
		Tenant:    t,
		Palette:   theme.NewPalette(t.Color),
		Links:     newLinks(r),
		Year:      time.Now().Year(),
		RequestID: chimw.GetReqID(r.Context()),
	}
	if h.sessions != nil {
		if f, ok := h.sessions.PopFlash(r.Context()); ok {
			data.Flash = &f
		}
	}
	return data
}

// siteURL returns the origin used for canonical and absolute URLs. A
// registered tenant uses its home domain. Local development hosts use the
// request origin. Degraded tenants on public hosts get "" so that URLs stay
// relative instead of echoing an arbitrary Host header.
func siteURL(r *http.Request, t tenant.Config) string {
	hc := tenant.HostContextFromRequest(r)
	switch {
	case tenant.IsLocal(hc.Hostname):
		return localOrigin(r, hc.Hostname)
	case t.Degraded || t.SiteURL() == "":
		return ""
	default:
		return t.SiteURL()
	}
}

// localOrigin rebuilds the origin of a loopback request from the parsed
// hostname and a numeric port only.
func localOrigin(r *http.Request, hostname string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	host := hostname
	if host == "" {
		host = "localhost"
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if _, port, err := net.SplitHostPort(r.Host); err == nil {
		if n, err := strconv.Atoi(port); err == nil && n > 0 && n < 65536 {
			host += ":" + port
		}
	}
	return scheme + "://" + host
}
