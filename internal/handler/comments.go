// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/content"
	"github.com/olegiv/tenantblog/internal/session"
)

// submissionTTL bounds how long a comment form token stays claimed.
const submissionTTL = 10 * time.Minute

// maxCommentFormBytes limits the comment form body.
const maxCommentFormBytes = 64 << 10

// Comment form messages.
const (
	msgCommentPosted    = "Thanks! Your comment has been posted."
	msgCommentDuplicate = "Your comment was already submitted."
	msgCommentFailed    = "We couldn't post your comment right now. Please try again."
	msgCommentRejected  = "Your comment could not be posted."
)

func (h *BlogHandler) newCommentForm(action string) CommentForm {
	return CommentForm{Action: action, SubmissionID: uuid.NewString()}
}

// CreateComment handles POST /posts/{slug}/comments.
//
// Each rendered form carries a submission ID. The ID is claimed in the
// submissions cache before the API call and released again when the call
// fails, so a double-clicked or replayed form posts at most one comment
// while a failed attempt can still be retried. The same ID is sent to the
// API as the idempotency key.
func (h *BlogHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t := currentTenant(r)
	slug := chi.URLParam(r, "slug")
	links := newLinks(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	submissionID := r.PostFormValue("submission_id")
	if _, err := uuid.Parse(submissionID); err != nil {
		submissionID = uuid.NewString()
	}

	in := content.NewComment{
		Slug:           slug,
		TenantKey:      t.Key,
		Name:           r.PostFormValue("name"),
		Email:          r.PostFormValue("email"),
		Body:           r.PostFormValue("body"),
		IdempotencyKey: submissionID,
	}.Normalize()

	form := CommentForm{
		SubmissionID: submissionID,
		Name:         in.Name,
		Email:        in.Email,
		Body:         in.Body,
	}

	if err := in.Validate(); err != nil {
		var verr *content.ValidationError
		if errors.As(err, &verr) {
			form.FieldErrors = verr.Fields
		}
		h.rerenderPost(w, r, slug, form, http.StatusUnprocessableEntity)
		return
	}

	key := cache.SubmissionKey(submissionID)
	if h.submissions != nil {
		claimed, err := h.submissions.Add(ctx, key, []byte(t.Key), submissionTTL)
		if err != nil {
			h.logger.WarnContext(ctx, "submission claim failed", "tenant", t.Key, "error", err)
		} else if !claimed {
			h.logger.InfoContext(ctx, "duplicate comment submission", "tenant", t.Key, "slug", slug)
			h.flash(r, session.FlashSuccess, msgCommentDuplicate)
			http.Redirect(w, r, links.Post(slug)+"#comments", http.StatusSeeOther)
			return
		}
	}

	created, err := h.content.CreateComment(ctx, in)
	if err != nil {
		if h.submissions != nil {
			_ = h.submissions.Delete(ctx, key)
		}
		h.logger.WarnContext(ctx, "comment submission failed", "tenant", t.Key, "slug", slug, "error", err)

		status := http.StatusBadGateway
		form.Error = msgCommentFailed

		var verr *content.ValidationError
		var apiErr *content.APIError
		switch {
		case errors.As(err, &verr):
			status = http.StatusUnprocessableEntity
			form.Error = ""
			form.FieldErrors = verr.Fields
		case errors.As(err, &apiErr) && !apiErr.Temporary():
			status = http.StatusUnprocessableEntity
			form.Error = msgCommentRejected
			if apiErr.Message != "" {
				form.Error = apiErr.Message
			}
		}
		h.rerenderPost(w, r, slug, form, status)
		return
	}

	h.logger.InfoContext(ctx, "comment created", "tenant", t.Key, "slug", slug, "comment_id", created.ID)
	if h.sessions != nil {
		h.sessions.PutPendingComment(ctx, created)
	}
	h.flash(r, session.FlashSuccess, msgCommentPosted)
	http.Redirect(w, r, links.Post(slug)+"#comments", http.StatusSeeOther)
}

// rerenderPost shows the post again with the submitted form state.
func (h *BlogHandler) rerenderPost(w http.ResponseWriter, r *http.Request, slug string, form CommentForm, status int) {
	t := currentTenant(r)
	view, ok := h.loadPost(w, r, t, slug)
	if !ok {
		return
	}
	form.Action = view.Form.Action
	view.Form = form
	h.renderPost(w, r, t, view, status)
}

func (h *BlogHandler) flash(r *http.Request, kind, message string) {
	if h.sessions != nil {
		h.sessions.PutFlash(r.Context(), kind, message)
	}
}
