// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/tenantblog/internal/model"
)

// Envelope shapes the fake API can answer list requests with.
const (
	EnvelopeBlogs = "blogs"
	EnvelopeData  = "data"
	EnvelopeBare  = ""
)

// RecordedRequest is a request received by ContentAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

// ContentAPI is a fake of the remote content API backed by httptest.
type ContentAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	posts    map[string][]model.Post
	comments map[string][]model.Comment
	byKey    map[string]model.Comment
	requests []RecordedRequest
	nextID   int

	envelope   string
	failStatus int
	failPaths  []string
	delay      time.Duration
}

// NewContentAPI starts a fake content API that is closed with the test.
func NewContentAPI(t testing.TB) *ContentAPI {
	t.Helper()
	api := &ContentAPI{
		posts:    map[string][]model.Post{},
		comments: map[string][]model.Comment{},
		byKey:    map[string]model.Comment{},
		envelope: EnvelopeBlogs,
	}

	r := chi.NewRouter()
	r.Use(api.record)
	r.Get("/api/blogs", api.listPosts)
	r.Get("/api/blogs/{slug}", api.getPost)
	r.Get("/api/blogs/{slug}/comments", api.listComments)
	r.Post("/api/blogs/{slug}/comments", api.createComment)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the base URL of the fake API.
func (a *ContentAPI) URL() string { return a.Server.URL }

// AddPosts registers posts for tenant in the given order.
func (a *ContentAPI) AddPosts(tenant string, posts ...model.Post) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.posts[tenant] = append(a.posts[tenant], posts...)
}

// AddComments registers comments on tenant/slug.
func (a *ContentAPI) AddComments(tenant, slug string, comments ...model.Comment) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comments[tenant+"/"+slug] = append(a.comments[tenant+"/"+slug], comments...)
}

// SetEnvelope selects the list envelope key ("" answers bare arrays).
func (a *ContentAPI) SetEnvelope(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.envelope = key
}

// Fail makes requests whose path starts with one of prefixes answer with
// status and an {"error": ...} body. No prefixes fails every request.
// A status of 0 restores normal behavior.
func (a *ContentAPI) Fail(status int, prefixes ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failStatus = status
	a.failPaths = prefixes
}

// SetDelay delays every response.
func (a *ContentAPI) SetDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

// Requests returns the requests received so far.
func (a *ContentAPI) Requests() []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RecordedRequest(nil), a.requests...)
}

// RequestCount counts requests with method whose path starts with prefix.
func (a *ContentAPI) RequestCount(method, prefix string) int {
	n := 0
	for _, r := range a.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

// Comments returns the stored comments on tenant/slug.
func (a *ContentAPI) Comments(tenant, slug string) []model.Comment {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Comment(nil), a.comments[tenant+"/"+slug]...)
}

func (a *ContentAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		a.mu.Lock()
		a.requests = append(a.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		status, paths, delay := a.failStatus, a.failPaths, a.delay
		a.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if status != 0 && matchesAny(r.URL.Path, paths) {
			writeJSON(w, status, map[string]string{"error": "simulated failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *ContentAPI) listPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tenant := q.Get("company")
	status := q.Get("status")
	limit, _ := strconv.Atoi(q.Get("limit"))

	a.mu.Lock()
	var out []model.Post
	for _, p := range a.posts[tenant] {
		if status != "" && p.Status != "" && !strings.EqualFold(p.Status, status) {
			continue
		}
		out = append(out, p)
	}
	envelope := a.envelope
	a.mu.Unlock()

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []model.Post{}
	}
	if envelope == EnvelopeBare {
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{envelope: out})
}

func (a *ContentAPI) getPost(w http.ResponseWriter, r *http.Request) {
	tenant := r.URL.Query().Get("company")
	slug := chi.URLParam(r, "slug")

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.posts[tenant] {
		if p.Slug == slug {
			writeJSON(w, http.StatusOK, map[string]any{"blog": p})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Blog not found"})
}

func (a *ContentAPI) listComments(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("company") + "/" + chi.URLParam(r, "slug")

	a.mu.Lock()
	comments := append([]model.Comment{}, a.comments[key]...)
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (a *ContentAPI) createComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Body    string `json:"body"`
		Company string `json:"company"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Body) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Name and body are required"})
		return
	}

	slug := chi.URLParam(r, "slug")
	idem := r.Header.Get("Idempotency-Key")

	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.byKey[idem]; ok && idem != "" {
		writeJSON(w, http.StatusOK, map[string]any{"comment": prev})
		return
	}

	a.nextID++
	c := model.Comment{
		ID:        strconv.Itoa(a.nextID),
		Name:      in.Name,
		Email:     in.Email,
		Body:      in.Body,
		CreatedAt: time.Now().UTC(),
		PostSlug:  slug,
		TenantKey: in.Company,
	}
	a.comments[in.Company+"/"+slug] = append(a.comments[in.Company+"/"+slug], c)
	if idem != "" {
		a.byKey[idem] = c
	}
	writeJSON(w, http.StatusCreated, map[string]any{"comment": c})
}

func matchesAny(path string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
