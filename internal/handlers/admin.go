// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	slugpkg "inkwell/internal/slug"
	"inkwell/internal/store"
)

// Admin serves the post management API. It sees posts in every status and
// clears the public response cache after each write. Protecting these
// routes is a deployment concern; the router mounts them under a separate
// path prefix for that purpose.
type Admin struct {
	posts        *store.PostStore
	cache        *cache.PostCache
	postsPerPage int
	displayZone  string
}

// NewAdmin creates the admin handler group.
func NewAdmin(posts *store.PostStore, postCache *cache.PostCache, postsPerPage int, displayZone string) *Admin {
	return &Admin{
		posts:        posts,
		cache:        postCache,
		postsPerPage: postsPerPage,
		displayZone:  displayZone,
	}
}

// postRequest is the body for creating or updating a post. Tags arrive as
// a single comma-delimited string, the same shape the editor submits.
type postRequest struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Content     string `json:"content"`
	AuthorID    int64  `json:"author_id"`
	Status      string `json:"status"`
	Tags        string `json:"tags"`
	PublishedAt string `json:"published_at"`
}

// parsePublishedAt accepts an RFC 3339 instant or empty.
func parsePublishedAt(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PostsList handles GET /admin/api/posts/{page} — posts in every status,
// optionally narrowed by ?status= and ?tag= query parameters.
func (h *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	filter := store.PostFilter{
		Status: r.URL.Query().Get("status"),
		Tag:    r.URL.Query().Get("tag"),
	}

	posts, total, numPages, err := h.posts.List(filter, page, h.postsPerPage)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, postPageResponse{
		Posts:    presentPosts(posts, h.displayZone),
		NumPosts: total,
		NumPages: numPages,
	})
}

// PostGet handles GET /admin/api/post/{id} — a single post in any status,
// raw content included, for the editor.
func (h *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		serverError(w, err)
		return
	}
	if post == nil {
		notFound(w, "Post not found")
		return
	}

	writeJSON(w, http.StatusOK, presentPost(post, h.displayZone))
}

// PostCreate handles POST /admin/api/posts. The slug is derived from the
// title when omitted. New posts default to Draft.
func (h *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Slug == "" {
		req.Slug = slugpkg.Generate(req.Title)
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	status, err := h.posts.StatusByName(req.Status)
	if err != nil {
		serverError(w, err)
		return
	}
	if status == nil {
		writeError(w, http.StatusBadRequest, "Unknown status: "+req.Status)
		return
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid published_at, want RFC 3339")
		return
	}

	post, err := h.posts.Create(&models.Post{
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		AuthorID:    req.AuthorID,
		StatusID:    status.ID,
		CreatedAt:   time.Now().UTC(),
		PublishedAt: publishedAt,
	}, store.SplitTagList(req.Tags))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusCreated, presentPost(post, h.displayZone))
}

// PostUpdate handles PUT /admin/api/post/{id}.
func (h *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	publishedAt, err := parsePublishedAt(req.PublishedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid published_at, want RFC 3339")
		return
	}

	post, err := h.posts.Update(id, req.Title, req.Slug, req.Content,
		store.SplitTagList(req.Tags), req.Status, publishedAt)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, presentPost(post, h.displayZone))
}

// PostPublish handles POST /admin/api/post/{id}/publish. Publishing an
// already Published post is a no-op that still returns the post.
func (h *Admin) PostPublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.Publish)
}

// PostArchive handles POST /admin/api/post/{id}/archive.
func (h *Admin) PostArchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.posts.Archive)
}

// transition runs a status transition and replies with the resulting post.
func (h *Admin) transition(w http.ResponseWriter, r *http.Request, fn func(int64) (int64, error)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	affected, err := fn(id)
	if err != nil {
		serverError(w, err)
		return
	}
	if affected == 0 {
		notFound(w, "Post not found")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		serverError(w, err)
		return
	}
	if post == nil {
		notFound(w, "Post not found")
		return
	}

	h.invalidate(r)
	writeJSON(w, http.StatusOK, presentPost(post, h.displayZone))
}

// PostDelete handles DELETE /admin/api/post/{id}. Deleting a missing post
// succeeds quietly.
func (h *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.posts.Delete(id); err != nil {
		serverError(w, err)
		return
	}

	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// PostsDeleteAll handles DELETE /admin/api/posts — the bulk reset used to
// clear out imported or seeded data. Tag names survive with their counts
// zeroed.
func (h *Admin) PostsDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.DeleteAll(); err != nil {
		serverError(w, err)
		return
	}

	h.invalidate(r)
	w.WriteHeader(http.StatusNoContent)
}

// StatusesList handles GET /admin/api/statuses — the status vocabulary for
// the editor's dropdown.
func (h *Admin) StatusesList(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.posts.Statuses()
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// writeStoreError maps store errors onto HTTP statuses.
func (h *Admin) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		notFound(w, "Post not found")
	case store.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		serverError(w, err)
	}
}

// invalidate clears the public response cache after any write.
func (h *Admin) invalidate(r *http.Request) {
	if h.cache != nil {
		h.cache.InvalidateAll(r.Context())
	}
}
