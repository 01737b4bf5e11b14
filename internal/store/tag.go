// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"inkwell/internal/models"
)

// TagStore owns tag identity and usage-count bookkeeping. Tags are created
// implicitly the first time a post references their name; the name is the
// natural key and comparison is case-sensitive exact match, the same
// semantics as the unique index on tags.name.
//
// EnsureAndIncrement and Decrement run inside a caller-supplied transaction
// so that count changes commit or roll back together with the association
// rows they account for. Concurrent increments against the same tag name
// serialize on the tag row via the database's row locking.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// EnsureAndIncrement creates any missing tag rows and increments usage_count
// by one for every occurrence in names. It returns the resolved id for each
// name. A duplicate name in the batch increments once per occurrence.
func (s *TagStore) EnsureAndIncrement(tx *sql.Tx, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO tags (name, usage_count) VALUES ($1, 1)
			ON CONFLICT (name) DO UPDATE SET usage_count = tags.usage_count + 1
			RETURNING id
		`, name).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("ensure tag %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

// Decrement lowers usage_count by one for every occurrence in tagIDs.
// A count never goes below zero: an attempted decrement of a zero-count tag
// indicates a caller-side desync, so it is clamped and logged rather than
// allowed to poison the row.
func (s *TagStore) Decrement(tx *sql.Tx, tagIDs []int64) error {
	for _, id := range tagIDs {
		res, err := tx.Exec(`
			UPDATE tags SET usage_count = usage_count - 1
			WHERE id = $1 AND usage_count > 0
		`, id)
		if err != nil {
			return fmt.Errorf("decrement tag %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement tag %d: %w", id, err)
		}
		if n == 0 {
			slog.Warn("tag usage count underflow clamped at zero", "tag_id", id)
		}
	}
	return nil
}

// ListActive returns tags currently in use, most used first. Tags whose
// usage count has dropped to zero are retained in the table but excluded.
func (s *TagStore) ListActive() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT id, name, usage_count
		FROM tags
		WHERE usage_count > 0
		ORDER BY usage_count DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list active tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UsageCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindByID retrieves a tag by id. Returns nil if not found.
func (s *TagStore) FindByID(id int64) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		SELECT id, name, usage_count FROM tags WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.UsageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// FindByName retrieves a tag by its exact name. Returns nil if not found.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		SELECT id, name, usage_count FROM tags WHERE name = $1
	`, name).Scan(&t.ID, &t.Name, &t.UsageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}
