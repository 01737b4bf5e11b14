// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// reconcile.go syncs a post's persisted tag associations to a desired set
// of tag names. The diff-and-apply sequence keeps tag usage counts exactly
// equal to the number of live association rows at every commit point.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"inkwell/internal/models"
)

// TagReconciler computes and applies the delta between a post's current and
// desired tag sets. It never provides cross-step atomicity on its own: every
// Apply call must run inside the post write's transaction, so a failure in
// any step rolls back counts and association rows together.
type TagReconciler struct {
	tags *TagStore
}

// NewTagReconciler returns a reconciler backed by the given tag registry.
func NewTagReconciler(tags *TagStore) *TagReconciler {
	return &TagReconciler{tags: tags}
}

// NormalizeTagNames trims whitespace, drops empty strings, and deduplicates
// while preserving first-seen order. Order only matters for deterministic
// output; counts are unaffected by it.
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// SplitTagList splits a comma-delimited tag string into normalized names.
// Callers that already hold a slice should use NormalizeTagNames directly.
func SplitTagList(list string) []string {
	return NormalizeTagNames(strings.Split(list, ","))
}

// diffTags compares the current association set against the desired names
// by exact case-sensitive name match. It returns the names to add and the
// tags whose associations must be removed.
func diffTags(current []models.Tag, desired []string) (toAdd []string, toRemove []models.Tag) {
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t.Name] = true
	}
	want := make(map[string]bool, len(desired))
	for _, name := range desired {
		want[name] = true
	}

	for _, name := range desired {
		if !have[name] {
			toAdd = append(toAdd, name)
		}
	}
	for _, t := range current {
		if !want[t.Name] {
			toRemove = append(toRemove, t)
		}
	}
	return toAdd, toRemove
}

// Apply reconciles the post's associations to the desired tag names inside
// tx and returns the post's resulting tag set. An empty desired set removes
// every current association.
//
// Steps run in a fixed order so no intermediate statement leaves a tag
// referenced with zero usage or an orphaned association row:
// resolve/increment additions first, then remove stale associations and
// decrement their tags, then insert the new association rows.
func (r *TagReconciler) Apply(tx *sql.Tx, postID int64, desired []string) ([]models.Tag, error) {
	desired = NormalizeTagNames(desired)

	current, err := currentTags(tx, postID)
	if err != nil {
		return nil, err
	}

	toAdd, toRemove := diffTags(current, desired)

	var addedIDs map[string]int64
	if len(toAdd) > 0 {
		addedIDs, err = r.tags.EnsureAndIncrement(tx, toAdd)
		if err != nil {
			return nil, err
		}
	}

	if len(toRemove) > 0 {
		removeIDs := make([]int64, 0, len(toRemove))
		for _, t := range toRemove {
			if _, err := tx.Exec(`
				DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2
			`, postID, t.ID); err != nil {
				return nil, fmt.Errorf("remove association post=%d tag=%d: %w", postID, t.ID, err)
			}
			removeIDs = append(removeIDs, t.ID)
		}
		if err := r.tags.Decrement(tx, removeIDs); err != nil {
			return nil, err
		}
	}

	for _, name := range toAdd {
		// ON CONFLICT DO NOTHING keeps the insert idempotent if the
		// association already exists.
		if _, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT (post_id, tag_id) DO NOTHING
		`, postID, addedIDs[name]); err != nil {
			return nil, fmt.Errorf("add association post=%d tag=%q: %w", postID, name, err)
		}
	}

	return currentTags(tx, postID)
}

// currentTags reads the post's live association set inside tx.
func currentTags(tx *sql.Tx, postID int64) ([]models.Tag, error) {
	rows, err := tx.Query(`
		SELECT t.id, t.name, t.usage_count
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = $1
		ORDER BY t.id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("current tags for post %d: %w", postID, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UsageCount); err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
