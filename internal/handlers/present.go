// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// present.go shapes store records into API response structs. Date fields
// are localized to the configured display zone here and only here — the
// stores deal exclusively in UTC.
package handlers

import (
	"log/slog"

	"inkwell/internal/markdown"
	"inkwell/internal/models"
	"inkwell/internal/timezone"
)

// postView is the full post representation returned by the API, including
// the Markdown source rendered to HTML and display-formatted dates.
type postView struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	AuthorID        int64    `json:"author_id"`
	Author          string   `json:"author"`
	Slug            string   `json:"slug"`
	Permalink       string   `json:"permalink"`
	RawContent      string   `json:"raw_content"`
	RenderedContent string   `json:"rendered_content"`
	CreatedAt       string   `json:"created_at"`
	PublishedAt     string   `json:"published_at,omitempty"`
	PublishedDate   string   `json:"published_date,omitempty"`
	PublishedDateUS string   `json:"published_date_us,omitempty"`
	PublishedTime   string   `json:"published_time,omitempty"`
	PublishedYear   *int     `json:"published_year,omitempty"`
	PublishedMonth  *int     `json:"published_month,omitempty"`
	Status          string   `json:"status"`
	Tags            []string `json:"tags"`
}

// postSummary is the reduced representation used by search results.
type postSummary struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Permalink      string `json:"permalink"`
	PublishedYear  *int   `json:"published_year,omitempty"`
	PublishedMonth *int   `json:"published_month,omitempty"`
}

// presentPost renders and localizes a single post for a response.
func presentPost(p *models.Post, displayZone string) postView {
	rendered, err := markdown.ToHTML(p.Content)
	if err != nil {
		// A render failure should not take down the read; fall back to
		// the raw source.
		slog.Warn("markdown render failed", "post_id", p.ID, "error", err)
		rendered = p.Content
	}

	v := postView{
		ID:              p.ID,
		Title:           p.Title,
		AuthorID:        p.AuthorID,
		Author:          p.Author,
		Slug:            p.Slug,
		Permalink:       p.Permalink(),
		RawContent:      p.Content,
		RenderedContent: rendered,
		CreatedAt:       timezone.FormatInZone(p.CreatedAt, displayZone, timezone.DateTimeFormat),
		PublishedYear:   p.PublishedYear,
		PublishedMonth:  p.PublishedMonth,
		Status:          p.Status,
		Tags:            p.TagNames(),
	}

	if p.PublishedAt != nil {
		v.PublishedAt = timezone.FormatInZone(*p.PublishedAt, displayZone, timezone.DateTimeFormat)
		v.PublishedDate = timezone.FormatInZone(*p.PublishedAt, displayZone, timezone.DateFormat)
		v.PublishedDateUS = timezone.FormatInZone(*p.PublishedAt, displayZone, timezone.USDateFormat)
		v.PublishedTime = timezone.FormatInZone(*p.PublishedAt, displayZone, timezone.Time12Format)
	}

	return v
}

// presentPosts maps a post slice into views.
func presentPosts(posts []models.Post, displayZone string) []postView {
	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, presentPost(&posts[i], displayZone))
	}
	return views
}

// presentSummaries maps posts into the reduced search result shape.
func presentSummaries(posts []models.Post) []postSummary {
	views := make([]postSummary, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		views = append(views, postSummary{
			Title:          p.Title,
			Slug:           p.Slug,
			Permalink:      p.Permalink(),
			PublishedYear:  p.PublishedYear,
			PublishedMonth: p.PublishedMonth,
		})
	}
	return views
}

// tagView adds navigation links to a tag record.
type tagView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
	PostsLink  string `json:"posts_link"`
}

// presentTags maps tags into views.
func presentTags(tags []models.Tag) []tagView {
	views := make([]tagView, 0, len(tags))
	for i := range tags {
		t := &tags[i]
		views = append(views, tagView{
			ID:         t.ID,
			Name:       t.Name,
			UsageCount: t.UsageCount,
			PostsLink:  t.PostsLink(),
		})
	}
	return views
}
