// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable; the
// response cache is left nil so handlers always hit the database.
package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv wires the handler groups onto a router with the live route
// patterns, without the cache.
type testEnv struct {
	db       *sql.DB
	posts    *store.PostStore
	router   chi.Router
	authorID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	posts := store.NewPostStore(db)
	public := NewPublic(posts, nil, 5, "UTC")
	admin := NewAdmin(posts, nil, 5, "UTC")

	r := chi.NewRouter()
	r.Get("/api/posts/{page}", public.PostsPage)
	r.Get("/api/posts/tag/{tag}/{page}", public.PostsByTag)
	r.Get("/api/posts/search/{term}", public.SearchPosts)
	r.Get("/api/post/{year}/{month}/{slug}", public.PostByPermalink)
	r.Get("/api/tags", public.TagsList)
	r.Get("/api/tag/{id}", public.TagByID)

	r.Get("/admin/api/posts/{page}", admin.PostsList)
	r.Post("/admin/api/posts", admin.PostCreate)
	r.Get("/admin/api/post/{id}", admin.PostGet)
	r.Put("/admin/api/post/{id}", admin.PostUpdate)
	r.Delete("/admin/api/post/{id}", admin.PostDelete)
	r.Post("/admin/api/post/{id}/publish", admin.PostPublish)
	r.Post("/admin/api/post/{id}/archive", admin.PostArchive)
	r.Get("/admin/api/statuses", admin.StatusesList)

	email := "handler-" + uuid.NewString()[:8] + "@test.local"
	var authorID int64
	err := db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, 'x', 'Handler', 'Test')
		RETURNING id
	`, email).Scan(&authorID)
	if err != nil {
		t.Fatalf("insert test author: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", authorID) })

	return &testEnv{db: db, posts: posts, router: r, authorID: authorID}
}

// do runs a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a recorder body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// cleanupPost deletes a post and its tags after the test.
func (e *testEnv) cleanupPost(t *testing.T, slug string, tags ...string) {
	t.Helper()
	t.Cleanup(func() {
		e.db.Exec("DELETE FROM posts WHERE slug = $1", slug)
		for _, tag := range tags {
			e.db.Exec("DELETE FROM tags WHERE name = $1", tag)
		}
	})
}

// wantStatus fails unless the recorder carries the expected status code.
func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
