// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// query.go composes filtered, paginated and search-scoped read queries over
// the posts schema. Reads bypass the reconciler entirely.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"inkwell/internal/models"
)

// PostFilter selects posts. Zero-valued fields are ignored; set fields are
// combined with AND semantics.
type PostFilter struct {
	ID     int64
	Status string // vocabulary name, e.g. models.StatusPublished
	Tag    string // exact tag name
	Year   int    // published year
	Month  int    // published month
	Slug   string
	Search string // case-insensitive substring of title OR content
}

// CalcPageStartEnd computes the half-open record range [start, end) for a
// 1-based page number.
func CalcPageStartEnd(page, perPage int) (start, end int) {
	start = (page - 1) * perPage
	end = start + perPage
	return start, end
}

// calcNumPages returns ceil(total/perPage), or 0 when perPage is not positive.
func calcNumPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// whereClause builds the filter's WHERE text and parameter list using
// Postgres positional placeholders.
func (f PostFilter) whereClause() (string, []any) {
	clauses := []string{"1=1"}
	var params []any

	next := func() string { return "$" + strconv.Itoa(len(params)) }

	if f.ID > 0 {
		params = append(params, f.ID)
		clauses = append(clauses, "p.id = "+next())
	}
	if f.Status != "" {
		params = append(params, f.Status)
		clauses = append(clauses, "ps.name = "+next())
	}
	if f.Tag != "" {
		params = append(params, f.Tag)
		clauses = append(clauses, `EXISTS (
			SELECT 1 FROM post_tags pt
				JOIN tags t ON t.id = pt.tag_id
			WHERE pt.post_id = p.id AND t.name = `+next()+`
		)`)
	}
	if f.Year > 0 {
		params = append(params, f.Year)
		clauses = append(clauses, "p.published_year = "+next())
	}
	if f.Month > 0 {
		params = append(params, f.Month)
		clauses = append(clauses, "p.published_month = "+next())
	}
	if f.Slug != "" {
		params = append(params, f.Slug)
		clauses = append(clauses, "p.slug = "+next())
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		params = append(params, like)
		titleClause := "p.title ILIKE " + next()
		params = append(params, like)
		clauses = append(clauses, "("+titleClause+" OR p.content ILIKE "+next()+")")
	}

	return strings.Join(clauses, " AND "), params
}

// List returns posts matching the filter ordered by creation time, most
// recent first, together with the total match count and the number of pages
// at perPage posts each.
//
// Pagination: page is 1-based; the slice [start, end) of the full filtered
// result is returned. A page value <= 0 disables slicing and returns the
// full filtered set — preserved as-is because existing callers rely on it
// as an "all" sentinel.
func (s *PostStore) List(f PostFilter, page, perPage int) ([]models.Post, int, int, error) {
	posts, total, err := s.list(f, page, perPage)
	if err != nil {
		return nil, 0, 0, err
	}
	return posts, total, calcNumPages(total, perPage), nil
}

// Search returns every Published post whose title or content contains term,
// case-insensitively, with no pagination applied, plus the match count.
func (s *PostStore) Search(term string) ([]models.Post, int, error) {
	return s.list(PostFilter{Status: models.StatusPublished, Search: term}, 0, 0)
}

// list runs the composed count and data queries. page <= 0 skips slicing.
func (s *PostStore) list(f PostFilter, page, perPage int) ([]models.Post, int, error) {
	where, params := f.whereClause()

	countSQL := `
		SELECT COUNT(p.id)
		FROM posts p
			JOIN post_statuses ps ON ps.id = p.status_id
		WHERE ` + where

	var total int
	if err := s.db.QueryRow(countSQL, params...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	dataSQL := `
		SELECT
			p.id, p.title, p.slug, p.content, p.author_id,
			u.first_name || ' ' || u.last_name AS author,
			p.status_id, ps.name AS status,
			p.created_at, p.published_at, p.published_year, p.published_month,
			(
				SELECT string_agg(t.name, ',' ORDER BY t.id)
				FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
				WHERE pt.post_id = p.id
			) AS tag_names,
			(
				SELECT string_agg(t.id::text, ',' ORDER BY t.id)
				FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
				WHERE pt.post_id = p.id
			) AS tag_ids
		FROM posts p
			JOIN users u ON u.id = p.author_id
			JOIN post_statuses ps ON ps.id = p.status_id
		WHERE ` + where + `
		ORDER BY p.created_at DESC`

	if page > 0 {
		start, _ := CalcPageStartEnd(page, perPage)
		dataSQL += fmt.Sprintf(" LIMIT %d OFFSET %d", perPage, start)
	}

	rows, err := s.db.Query(dataSQL, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		var tagNames, tagIDs sql.NullString
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content, &p.AuthorID, &p.Author,
			&p.StatusID, &p.Status,
			&p.CreatedAt, &p.PublishedAt, &p.PublishedYear, &p.PublishedMonth,
			&tagNames, &tagIDs,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		p.Tags, err = parseTagAggregates(tagNames, tagIDs)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// parseTagAggregates rebuilds the tag slice from the comma-aggregated name
// and id columns. UsageCount is not carried on post reads; it belongs to
// the tag registry's own listings.
func parseTagAggregates(names, ids sql.NullString) ([]models.Tag, error) {
	if !names.Valid || names.String == "" {
		return nil, nil
	}
	nameList := strings.Split(names.String, ",")
	idList := strings.Split(ids.String, ",")
	if len(nameList) != len(idList) {
		return nil, fmt.Errorf("tag aggregate mismatch: %d names, %d ids", len(nameList), len(idList))
	}

	tags := make([]models.Tag, 0, len(nameList))
	for i, name := range nameList {
		id, err := strconv.ParseInt(idList[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse tag id %q: %w", idList[i], err)
		}
		tags = append(tags, models.Tag{ID: id, Name: name})
	}
	return tags, nil
}
