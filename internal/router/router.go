// Package router sets up all HTTP routes and middleware chains for the
// Inkwell API. Read endpoints live under /api; post management lives
// under /admin/api so a reverse proxy or gateway can fence it off.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(public *handlers.Public, admin *handlers.Admin) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Public read API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts/{page}", public.PostsPage)
		r.Get("/posts/tag/{tag}/{page}", public.PostsByTag)
		r.Get("/posts/search/{term}", public.SearchPosts)
		r.Get("/post/{year}/{month}/{slug}", public.PostByPermalink)
		r.Get("/tags", public.TagsList)
		r.Get("/tag/{id}", public.TagByID)
	})

	// Post management API. Authentication is enforced in front of this
	// prefix by the deployment, not in-process.
	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/posts/{page}", admin.PostsList)
		r.Post("/posts", admin.PostCreate)
		r.Delete("/posts", admin.PostsDeleteAll)
		r.Get("/post/{id}", admin.PostGet)
		r.Put("/post/{id}", admin.PostUpdate)
		r.Delete("/post/{id}", admin.PostDelete)
		r.Post("/post/{id}/publish", admin.PostPublish)
		r.Post("/post/{id}/archive", admin.PostArchive)
		r.Get("/statuses", admin.StatusesList)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
