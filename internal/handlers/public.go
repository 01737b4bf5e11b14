// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Public serves the read-only post and tag API. Listing and permalink
// responses are cached in Valkey; the cache may be nil, in which case
// every request goes to the database.
type Public struct {
	posts        *store.PostStore
	cache        *cache.PostCache
	postsPerPage int
	displayZone  string
}

// NewPublic creates the public handler group.
func NewPublic(posts *store.PostStore, postCache *cache.PostCache, postsPerPage int, displayZone string) *Public {
	return &Public{
		posts:        posts,
		cache:        postCache,
		postsPerPage: postsPerPage,
		displayZone:  displayZone,
	}
}

// postPageResponse is the body for paged post listings.
type postPageResponse struct {
	Posts    []postView `json:"posts"`
	NumPosts int        `json:"num_posts"`
	NumPages int        `json:"num_pages"`
}

// searchResponse is the body for search results.
type searchResponse struct {
	Posts    []postSummary `json:"posts"`
	NumPosts int           `json:"num_posts"`
}

// PostsPage handles GET /api/posts/{page} — a page of Published posts,
// most recent first.
func (h *Public) PostsPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	h.cached(w, r, cache.ListKey(page), func() (any, error) {
		filter := store.PostFilter{Status: models.StatusPublished}
		posts, total, numPages, err := h.posts.List(filter, page, h.postsPerPage)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, nil
		}
		return postPageResponse{
			Posts:    presentPosts(posts, h.displayZone),
			NumPosts: total,
			NumPages: numPages,
		}, nil
	})
}

// PostsByTag handles GET /api/posts/tag/{tag}/{page} — Published posts
// carrying the named tag.
func (h *Public) PostsByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	h.cached(w, r, cache.TagListKey(tag, page), func() (any, error) {
		filter := store.PostFilter{Status: models.StatusPublished, Tag: tag}
		posts, total, numPages, err := h.posts.List(filter, page, h.postsPerPage)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, nil
		}
		return postPageResponse{
			Posts:    presentPosts(posts, h.displayZone),
			NumPosts: total,
			NumPages: numPages,
		}, nil
	})
}

// SearchPosts handles GET /api/posts/search/{term} — every Published post
// matching the term, unpaginated. Search results are not cached.
func (h *Public) SearchPosts(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")

	posts, total, err := h.posts.Search(term)
	if err != nil {
		serverError(w, err)
		return
	}
	if total == 0 {
		notFound(w, "No posts found")
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Posts:    presentSummaries(posts),
		NumPosts: total,
	})
}

// PostByPermalink handles GET /api/post/{year}/{month}/{slug} — a single
// Published post looked up by its permalink parts.
func (h *Public) PostByPermalink(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month")
		return
	}
	slug := chi.URLParam(r, "slug")

	h.cached(w, r, cache.PermalinkKey(year, month, slug), func() (any, error) {
		post, err := h.posts.FindByPublishedSlug(year, month, slug)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, nil
		}
		return presentPost(post, h.displayZone), nil
	})
}

// TagsList handles GET /api/tags — tags still attached to at least one
// post, most used first.
func (h *Public) TagsList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.posts.Tags().ListActive()
	if err != nil {
		serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentTags(tags))
}

// TagByID handles GET /api/tag/{id}.
func (h *Public) TagByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	tag, err := h.posts.Tags().FindByID(id)
	if err != nil {
		serverError(w, err)
		return
	}
	if tag == nil {
		notFound(w, "Tag not found")
		return
	}

	views := presentTags([]models.Tag{*tag})
	writeJSON(w, http.StatusOK, views[0])
}

// cached serves key from the response cache when possible; otherwise it
// invokes build, replies with its result and stores the body. A nil value
// from build means not found.
func (h *Public) cached(w http.ResponseWriter, r *http.Request, key string, build func() (any, error)) {
	if h.cache != nil {
		if body, ok := h.cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}
	}

	v, err := build()
	if err != nil {
		serverError(w, err)
		return
	}
	if v == nil {
		notFound(w, "No posts found")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		serverError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), key, body)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
