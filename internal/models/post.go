// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the typed records persisted by the blog engine.
package models

import (
	"fmt"
	"time"
)

// Post status vocabulary. The rows live in the post_statuses table, seeded
// once by migration, and are referenced by id from posts.
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
	StatusArchived  = "Archived"
)

// PostStatus is one row of the status vocabulary table.
type PostStatus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Post represents a blog entry. Content holds raw Markdown source; rendering
// to HTML happens only when shaping API responses, never at rest.
//
// PublishedAt, PublishedYear and PublishedMonth are either all nil or all
// set together. They are filled once on first publish and never cleared by
// a later publish.
type Post struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	AuthorID       int64      `json:"author_id"`
	Author         string     `json:"author"` // display name joined from users
	StatusID       int64      `json:"status_id"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	PublishedYear  *int       `json:"published_year,omitempty"`
	PublishedMonth *int       `json:"published_month,omitempty"`
	Tags           []Tag      `json:"tags"`
}

// IsPublished returns true if the post is in Published status.
func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

// IsDraft returns true if the post is a draft.
func (p *Post) IsDraft() bool {
	return p.Status == StatusDraft
}

// Permalink returns the public URL path for the post in the form
// /post/{year}/{month}/{slug}. It is empty until the post has publish
// timestamps.
func (p *Post) Permalink() string {
	if p.PublishedYear == nil || p.PublishedMonth == nil {
		return ""
	}
	return fmt.Sprintf("/post/%d/%d/%s", *p.PublishedYear, *p.PublishedMonth, p.Slug)
}

// TagNames returns the names of the post's tags in stored order.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}
