// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"time"
)

// Comment is a reader comment attached to a post.
// Email is accepted on submission but never rendered.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	PostSlug  string    `json:"postSlug,omitempty"`
	TenantKey string    `json:"company,omitempty"`
}

// UnmarshalJSON decodes a comment, accepting numeric ids and "content" as
// an alias for the body.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        flexString `json:"id"`
		Name      string     `json:"name"`
		Author    string     `json:"author"`
		Email     string     `json:"email"`
		Body      string     `json:"body"`
		Content   string     `json:"content"`
		CreatedAt flexTime   `json:"createdAt"`
		PostSlug  string     `json:"postSlug"`
		Slug      string     `json:"slug"`
		Company   flexName   `json:"company"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Comment{
		ID:        string(raw.ID),
		Name:      firstNonEmpty(raw.Name, raw.Author),
		Email:     raw.Email,
		Body:      firstNonEmpty(raw.Body, raw.Content),
		CreatedAt: time.Time(raw.CreatedAt),
		PostSlug:  firstNonEmpty(raw.PostSlug, raw.Slug),
		TenantKey: string(raw.Company),
	}
	return nil
}
