// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the blog: the listing, post
// pages, comment submission, feeds and health checks.
package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/olegiv/tenantblog/internal/blog"
	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/content"
	"github.com/olegiv/tenantblog/internal/markdown"
	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/seo"
	"github.com/olegiv/tenantblog/internal/session"
	"github.com/olegiv/tenantblog/internal/tenant"
	"github.com/olegiv/tenantblog/internal/theme"
	"github.com/olegiv/tenantblog/internal/uikit"
	"github.com/olegiv/tenantblog/internal/util"
)

// fetchFailedRetryAfter is sent with the listing when the API is down.
const fetchFailedRetryAfter = "30"

// Content is the part of the content API the handlers use.
type Content interface {
	ListPosts(ctx context.Context, tenantKey, status string) ([]model.Post, error)
	GetPost(ctx context.Context, slug, tenantKey string) (model.Post, error)
	ListComments(ctx context.Context, slug, tenantKey string) ([]model.Comment, error)
	CreateComment(ctx context.Context, in content.NewComment) (model.Comment, error)
}

// BlogOptions configures a BlogHandler.
type BlogOptions struct {
	Content  Content
	Renderer *theme.Renderer
	Markdown *markdown.Renderer
	Sessions *session.Manager

	// Submissions de-duplicates comment form submissions.
	Submissions cache.Cacher

	PageSize   int
	MaxRelated int
	Logger     *slog.Logger
}

// BlogHandler serves the tenant's blog pages.
type BlogHandler struct {
	content     Content
	renderer    *theme.Renderer
	markdown    *markdown.Renderer
	sessions    *session.Manager
	submissions cache.Cacher
	pageSize    int
	maxRelated  int
	logger      *slog.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(opts BlogOptions) *BlogHandler {
	h := &BlogHandler{
		content:     opts.Content,
		renderer:    opts.Renderer,
		markdown:    opts.Markdown,
		sessions:    opts.Sessions,
		submissions: opts.Submissions,
		pageSize:    opts.PageSize,
		maxRelated:  opts.MaxRelated,
		logger:      opts.Logger,
	}
	if h.pageSize < 1 {
		h.pageSize = blog.DefaultPageSize
	}
	if h.maxRelated < 1 {
		h.maxRelated = blog.DefaultMaxRelated
	}
	if h.markdown == nil {
		h.markdown = markdown.New()
	}
	return h
}

// currentTenant returns the tenant resolved by the ResolveTenant middleware.
func currentTenant(r *http.Request) tenant.Config {
	if t, ok := tenant.FromContext(r.Context()); ok {
		return t
	}
	return tenant.Fallback("")
}

// List handles GET / (the listing, paginated with ?page=N).
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := currentTenant(r)
	page := uikit.ParsePageParam(r)

	posts, err := h.content.ListPosts(ctx, t.Key, model.StatusPublished)
	if ctx.Err() != nil {
		return
	}

	state := blog.StateOf(posts, err)
	listing := blog.AssembleListing(posts, page, h.pageSize, true)
	if state == blog.StateLoaded && listing.OutOfRange() {
		h.NotFound(w, r)
		return
	}

	data := h.newPageData(r, t)
	base := siteURL(r, t)
	data.Meta = seo.ListingMeta(t, base)
	data.Schema = seo.BuildBlogSchema(t, base)

	view := &ListingView{
		State:      state,
		Items:      listing.Items,
		Page:       listing.Page,
		TotalPosts: listing.TotalPosts,
		Pagination: uikit.BuildPagination(listing.Page, listing.TotalPages, "/", data.Links.Query()),
	}
	// The hero leads the first page only.
	if listing.Page == 1 {
		view.Hero = listing.Hero
	}
	if listing.Page > 1 {
		data.Meta.Canonical = base + "/?page=" + strconv.Itoa(listing.Page)
		data.Meta.OGURL = data.Meta.Canonical
	}
	data.Listing = view

	status := http.StatusOK
	if state == blog.StateFetchFailed {
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", fetchFailedRetryAfter)
		w.Header().Set("Cache-Control", "no-store")
		data.Meta.Robots = "noindex,nofollow"
	}
	h.render(w, r, "list", status, data)
}

// Post handles GET /posts/{slug}.
func (h *BlogHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	t := currentTenant(r)

	view, ok := h.loadPost(w, r, t, slug)
	if !ok {
		return
	}
	view.Form = h.newCommentForm(view.Form.Action)
	h.renderPost(w, r, t, view, http.StatusOK)
}

// LegacyPost handles GET /{slug}, the post URL scheme of older links.
// Anything that looks like a file name is a plain 404.
func (h *BlogHandler) LegacyPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if strings.Contains(slug, ".") || !util.IsSafePathSegment(slug) {
		h.NotFound(w, r)
		return
	}
	h.Post(w, r)
}

// loadPost fetches the post, the listing it is related to and its comments.
// Posts are looked up in the tenant listing first and fetched by slug only
// when missing there. When the post cannot be found the visitor is
// redirected to the listing and false is returned.
func (h *BlogHandler) loadPost(w http.ResponseWriter, r *http.Request, t tenant.Config, slug string) (*PostView, bool) {
	ctx := r.Context()
	links := newLinks(r)

	if !util.IsSafePathSegment(slug) {
		h.redirectNotFound(w, r, links)
		return nil, false
	}

	var (
		posts       []model.Post
		comments    []model.Comment
		commentsErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		posts, _ = h.content.ListPosts(ctx, t.Key, model.StatusPublished)
		return nil
	})
	g.Go(func() error {
		comments, commentsErr = h.content.ListComments(ctx, slug, t.Key)
		return nil
	})
	_ = g.Wait()
	if ctx.Err() != nil {
		return nil, false
	}

	post, found := blog.FindBySlug(posts, slug)
	if !found {
		var err error
		post, err = h.content.GetPost(ctx, slug, t.Key)
		if err != nil {
			if ctx.Err() == nil {
				h.redirectNotFound(w, r, links)
			}
			return nil, false
		}
	}

	detail := blog.AssembleDetail(post, posts, slug, h.maxRelated)
	base := siteURL(r, t)

	view := &PostView{
		Post:           post,
		Body:           h.markdown.Render(post.Content),
		ReadTime:       detail.ReadTimeMinutes,
		Date:           blog.DisplayDate(post, blog.DateLayoutLong),
		Related:        detail.Related,
		Share:          blog.ShareLinks(seo.PostURL(base, post.Slug), post.Title),
		Breadcrumbs:    uikit.BackLink("← "+t.Name+" Blog", links.Home()),
		Comments:       comments,
		CommentsFailed: commentsErr != nil,
		Form:           CommentForm{Action: links.Comments(post.Slug)},
	}
	if h.sessions != nil {
		if c, ok := h.sessions.PopPendingComment(ctx, t.Key, post.Slug); ok {
			view.Comments = appendPending(view.Comments, c)
		}
	}
	return view, true
}

// appendPending adds a just-created comment unless the API already lists it.
func appendPending(comments []model.Comment, c model.Comment) []model.Comment {
	for _, existing := range comments {
		if c.ID != "" && existing.ID == c.ID {
			return comments
		}
	}
	return append(comments, c)
}

func (h *BlogHandler) redirectNotFound(w http.ResponseWriter, r *http.Request, links Links) {
	h.flash(r, session.FlashError, "Post not found")
	http.Redirect(w, r, links.Home(), http.StatusFound)
}

func (h *BlogHandler) renderPost(w http.ResponseWriter, r *http.Request, t tenant.Config, view *PostView, status int) {
	data := h.newPageData(r, t)
	base := siteURL(r, t)
	data.Meta = seo.PostMeta(t, base, view.Post)
	data.Schema = seo.BuildPostingSchema(t, base, view.Post, blog.WordCount(view.Post.Content))
	data.Post = view
	h.render(w, r, "post", status, data)
}

// NotFound renders the 404 page.
func (h *BlogHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	t := currentTenant(r)
	data := h.newPageData(r, t)
	data.Meta = seo.PageMeta{
		Title:  "Page not found" + seo.TitleSeparator + t.Name,
		Robots: "noindex,nofollow",
	}
	data.Error = &ErrorView{
		Status:  http.StatusNotFound,
		Title:   "Page not found",
		Message: "The page you are looking for does not exist.",
	}
	h.render(w, r, "404", http.StatusNotFound, data)
}

// render renders a page to a buffer first so template errors become a
// plain 500 instead of a half-written page.
func (h *BlogHandler) render(w http.ResponseWriter, r *http.Request, page string, status int, data PageData) {
	start := time.Now()
	buf := new(bytes.Buffer)
	if err := h.renderer.RenderPage(buf, page, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render template", "template", page, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
		return
	}
	h.logger.DebugContext(r.Context(), "page rendered", "template", page, "duration", time.Since(start))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
