// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/olegiv/tenantblog/internal/model"
	"github.com/olegiv/tenantblog/internal/util"
)

// Comment field limits.
const (
	MaxCommentNameLength  = 100
	MaxCommentEmailLength = 254
	MaxCommentBodyLength  = 5000
)

// IdempotencyHeader carries the submission token on comment creation.
const IdempotencyHeader = "Idempotency-Key"

// NewComment is a comment submission.
type NewComment struct {
	Slug      string
	TenantKey string
	Name      string
	Email     string
	Body      string

	// IdempotencyKey identifies the submission attempt. A random key is
	// generated when empty.
	IdempotencyKey string
}

// Normalize trims surrounding whitespace from the user-supplied fields.
func (n NewComment) Normalize() NewComment {
	n.Name = strings.TrimSpace(n.Name)
	n.Email = strings.TrimSpace(n.Email)
	n.Body = strings.TrimSpace(n.Body)
	return n
}

// Validate checks a normalized submission. The returned error, if any, is a
// *ValidationError.
func (n NewComment) Validate() error {
	fields := map[string]string{}

	switch {
	case n.Name == "":
		fields["name"] = "Name is required"
	case utf8.RuneCountInString(n.Name) > MaxCommentNameLength:
		fields["name"] = fmt.Sprintf("Name must be at most %d characters", MaxCommentNameLength)
	}

	if n.Email != "" {
		addr, err := mail.ParseAddress(n.Email)
		if err != nil || addr.Address != n.Email || len(n.Email) > MaxCommentEmailLength {
			fields["email"] = "Email address is not valid"
		}
	}

	switch {
	case n.Body == "":
		fields["body"] = "Comment is required"
	case utf8.RuneCountInString(n.Body) > MaxCommentBodyLength:
		fields["body"] = fmt.Sprintf("Comment must be at most %d characters", MaxCommentBodyLength)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListComments returns the comments on a post, oldest first. Like
// ListPosts it returns an empty slice alongside any error.
func (c *Client) ListComments(ctx context.Context, slug, tenantKey string) ([]model.Comment, error) {
	if !util.IsSafePathSegment(slug) {
		return []model.Comment{}, fmt.Errorf("list comments: invalid slug %q", slug)
	}

	data, err := c.getJSON(ctx, "/api/blogs/"+url.PathEscape(slug)+"/comments", url.Values{"company": {tenantKey}})
	if err != nil {
		if !isCanceled(err) {
			c.logger.Warn("listing comments failed", "tenant", tenantKey, "slug", slug, "error", err)
		}
		return []model.Comment{}, fmt.Errorf("list comments for %q: %w", slug, err)
	}

	comments, err := decodeList[model.Comment](data, "comments", "data")
	if err != nil {
		return []model.Comment{}, fmt.Errorf("decode comments: %w", err)
	}

	out := comments[:0]
	for _, cm := range comments {
		if strings.TrimSpace(cm.Body) == "" {
			continue
		}
		cm.Email = ""
		cm.PostSlug = slug
		cm.TenantKey = tenantKey
		out = append(out, cm)
	}
	slices.SortStableFunc(out, func(a, b model.Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

type createCommentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Body    string `json:"body"`
	Company string `json:"company"`
}

// CreateComment submits a comment. The request is sent once; it is never
// retried because the API may not honor the idempotency key.
//
// Invalid input fails with a *ValidationError before any request is made.
// Non-2xx responses yield an *APIError.
func (c *Client) CreateComment(ctx context.Context, in NewComment) (model.Comment, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Comment{}, err
	}
	if !util.IsSafePathSegment(in.Slug) {
		return model.Comment{}, &ValidationError{Fields: map[string]string{"slug": "Unknown post"}}
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = uuid.NewString()
	}

	body := createCommentRequest{Name: in.Name, Email: in.Email, Body: in.Body, Company: in.TenantKey}
	header := http.Header{IdempotencyHeader: {in.IdempotencyKey}}

	data, err := c.roundTrip(ctx, http.MethodPost, "/api/blogs/"+url.PathEscape(in.Slug)+"/comments", nil, body, header)
	if err != nil {
		return model.Comment{}, fmt.Errorf("create comment: %w", err)
	}

	created, err := decodeOne[model.Comment](data, "comment", "data")
	if err != nil {
		// The write went through; fall back to the submitted values.
		c.logger.Warn("undecodable comment response", "slug", in.Slug, "error", err)
		created = model.Comment{}
	}
	return fillComment(created, in), nil
}

// fillComment completes an API-returned comment with submitted values so
// the optimistic copy shown to the author is always renderable.
func fillComment(cm model.Comment, in NewComment) model.Comment {
	if cm.Name == "" {
		cm.Name = in.Name
	}
	if cm.Body == "" {
		cm.Body = in.Body
	}
	if cm.CreatedAt.IsZero() {
		cm.CreatedAt = time.Now().UTC()
	}
	if cm.ID == "" {
		cm.ID = in.IdempotencyKey
	}
	cm.Email = ""
	cm.PostSlug = in.Slug
	cm.TenantKey = in.TenantKey
	return cm
}
