package models

import (
	"testing"
	"time"
)

func TestPostPermalink(t *testing.T) {
	year, month := 2026, 3
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	published := Post{
		Slug:           "pi-day",
		PublishedAt:    &at,
		PublishedYear:  &year,
		PublishedMonth: &month,
	}
	if got := published.Permalink(); got != "/post/2026/3/pi-day" {
		t.Errorf("Permalink: got %q", got)
	}

	draft := Post{Slug: "not-yet"}
	if got := draft.Permalink(); got != "" {
		t.Errorf("draft Permalink: got %q, want empty", got)
	}
}

func TestPostStatusHelpers(t *testing.T) {
	if p := (Post{Status: StatusPublished}); !p.IsPublished() || p.IsDraft() {
		t.Error("published post misreported")
	}
	if p := (Post{Status: StatusDraft}); p.IsPublished() || !p.IsDraft() {
		t.Error("draft post misreported")
	}
	if p := (Post{Status: StatusArchived}); p.IsPublished() || p.IsDraft() {
		t.Error("archived post misreported")
	}
}

func TestPostTagNames(t *testing.T) {
	p := Post{Tags: []Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "web"}}}

	names := p.TagNames()
	if len(names) != 2 || names[0] != "go" || names[1] != "web" {
		t.Errorf("TagNames: got %v", names)
	}

	empty := Post{}
	if got := empty.TagNames(); len(got) != 0 {
		t.Errorf("TagNames on untagged post: got %v", got)
	}
}

func TestTagPostsLink(t *testing.T) {
	tag := Tag{ID: 7, Name: "databases"}
	if got := tag.PostsLink(); got != "/posts/tag/databases" {
		t.Errorf("PostsLink: got %q", got)
	}
}
