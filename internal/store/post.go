// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"inkwell/internal/models"
)

// minFieldLen is the minimum length for title, slug and content.
const minFieldLen = 3

// PostStore owns post records and the publish state machine. Every write
// operation runs in a single transaction so the post row, its association
// rows, and the tag usage counts commit or roll back together. Tag
// side-effects always go through the TagReconciler, never direct SQL.
type PostStore struct {
	db         *sql.DB
	tags       *TagStore
	reconciler *TagReconciler
}

// NewPostStore creates a PostStore and wires its tag registry and reconciler
// onto the same connection pool.
func NewPostStore(db *sql.DB) *PostStore {
	tags := NewTagStore(db)
	return &PostStore{
		db:         db,
		tags:       tags,
		reconciler: NewTagReconciler(tags),
	}
}

// Tags exposes the tag registry sharing this store's connection.
func (s *PostStore) Tags() *TagStore {
	return s.tags
}

// validatePostFields enforces the minimum lengths for the three free-text
// fields. The offending field is named so callers can surface it.
func validatePostFields(title, slug, content string) error {
	if utf8.RuneCountInString(title) < minFieldLen {
		return &ValidationError{Field: "title", Message: "must be at least 3 characters"}
	}
	if utf8.RuneCountInString(slug) < minFieldLen {
		return &ValidationError{Field: "slug", Message: "must be at least 3 characters"}
	}
	if utf8.RuneCountInString(content) < minFieldLen {
		return &ValidationError{Field: "content", Message: "must be at least 3 characters"}
	}
	return nil
}

// publishedParts decomposes an optional publish instant into the nullable
// year and month columns. All three are nil or all three are set.
func publishedParts(publishedAt *time.Time) (*time.Time, *int, *int) {
	if publishedAt == nil {
		return nil, nil, nil
	}
	utc := publishedAt.UTC()
	year, month := utc.Year(), int(utc.Month())
	return &utc, &year, &month
}

// Create validates and inserts a new post, then reconciles its tag set from
// an empty current set. The fully materialized post, including resolved
// tags, author name and status, is returned. No row is written when
// validation fails.
func (s *PostStore) Create(p *models.Post, tagNames []string) (*models.Post, error) {
	if err := validatePostFields(p.Title, p.Slug, p.Content); err != nil {
		return nil, err
	}

	publishedAt, pubYear, pubMonth := publishedParts(p.PublishedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content, author_id, status_id,
		                   created_at, published_at, published_year, published_month)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, p.Title, p.Slug, p.Content, p.AuthorID, p.StatusID,
		p.CreatedAt.UTC(), publishedAt, pubYear, pubMonth,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if _, err := s.reconciler.Apply(tx, id, tagNames); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	return s.FindByID(id)
}

// Update validates and persists field changes for an existing post and
// reconciles its tags against tagNames. The status is supplied by name and
// re-resolved against the vocabulary; an unknown name is a ValidationError.
// Returns ErrNotFound if the post does not exist.
func (s *PostStore) Update(id int64, title, slug, content string, tagNames []string, statusName string, publishedAt *time.Time) (*models.Post, error) {
	if err := validatePostFields(title, slug, content); err != nil {
		return nil, err
	}

	existing, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	status, err := s.StatusByName(statusName)
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, &ValidationError{Field: "status", Message: "unknown status " + statusName}
	}

	pubAt, pubYear, pubMonth := publishedParts(publishedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, status_id = $4,
			published_at = $5, published_year = $6, published_month = $7
		WHERE id = $8
	`, title, slug, content, status.ID, pubAt, pubYear, pubMonth, id)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if _, err := s.reconciler.Apply(tx, id, tagNames); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}

	return s.FindByID(id)
}

// Publish moves a post to Published and backfills the publish timestamps if
// they are still null. Re-publishing is idempotent: timestamps already set
// are left untouched, including when publishing out of Archived. Returns the
// number of rows affected — 0 means the post does not exist.
func (s *PostStore) Publish(id int64) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE posts SET
			status_id = (SELECT id FROM post_statuses WHERE name = 'Published'),
			published_at = COALESCE(published_at, $1),
			published_year = COALESCE(published_year, $2),
			published_month = COALESCE(published_month, $3)
		WHERE id = $4
	`, now, now.Year(), int(now.Month()), id)
	if err != nil {
		return 0, fmt.Errorf("publish post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("publish post: %w", err)
	}
	return n, nil
}

// Archive moves a post to Archived unconditionally. Publish timestamps are
// not touched, so a later re-publish keeps the original publication date.
// Returns the number of rows affected.
func (s *PostStore) Archive(id int64) (int64, error) {
	res, err := s.db.Exec(`
		UPDATE posts SET
			status_id = (SELECT id FROM post_statuses WHERE name = 'Archived')
		WHERE id = $1
	`, id)
	if err != nil {
		return 0, fmt.Errorf("archive post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archive post: %w", err)
	}
	return n, nil
}

// Delete removes a post and its tag associations, decrementing each
// associated tag's usage count through the reconciler's removal path.
// Deleting a post that does not exist is a no-op.
func (s *PostStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if !exists {
		return nil
	}

	// Reconciling to an empty desired set removes every association and
	// decrements the counts.
	if _, err := s.reconciler.Apply(tx, id, nil); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return tx.Commit()
}

// DeleteAll bulk-clears every post and association. Usage counts are reset
// to zero directly instead of decrementing one association at a time; the
// final state is identical. Tag rows themselves are retained.
func (s *PostStore) DeleteAll() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_tags`); err != nil {
		return fmt.Errorf("delete all associations: %w", err)
	}
	if _, err := tx.Exec(`UPDATE tags SET usage_count = 0`); err != nil {
		return fmt.Errorf("reset tag counts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM posts`); err != nil {
		return fmt.Errorf("delete all posts: %w", err)
	}

	return tx.Commit()
}

// FindByID retrieves a single post by id with author, status and tags
// resolved. Returns nil if not found.
func (s *PostStore) FindByID(id int64) (*models.Post, error) {
	posts, _, err := s.list(PostFilter{ID: id}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// FindByPublishedSlug retrieves a Published post by its publication year and
// month plus slug — the permalink lookup. Returns nil if not found.
func (s *PostStore) FindByPublishedSlug(year, month int, slug string) (*models.Post, error) {
	posts, _, err := s.list(PostFilter{
		Status: models.StatusPublished,
		Year:   year,
		Month:  month,
		Slug:   slug,
	}, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

// StatusByName resolves a vocabulary status by name. Returns nil if the
// name is not part of the vocabulary.
func (s *PostStore) StatusByName(name string) (*models.PostStatus, error) {
	ps := &models.PostStatus{}
	err := s.db.QueryRow(`
		SELECT id, name FROM post_statuses WHERE name = $1
	`, name).Scan(&ps.ID, &ps.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find status by name: %w", err)
	}
	return ps, nil
}

// Statuses returns the full status vocabulary.
func (s *PostStore) Statuses() ([]models.PostStatus, error) {
	rows, err := s.db.Query(`SELECT id, name FROM post_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.PostStatus
	for rows.Next() {
		var ps models.PostStatus
		if err := rows.Scan(&ps.ID, &ps.Name); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statuses = append(statuses, ps)
	}
	return statuses, rows.Err()
}
