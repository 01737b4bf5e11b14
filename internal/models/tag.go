// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Tag labels posts. A tag is created implicitly the first time any post
// references its name and is never deleted; once its UsageCount drops to
// zero it simply stops appearing in active-tag listings.
//
// UsageCount is the number of live post associations referencing the tag.
// The store keeps it exactly in sync with the association table — it is a
// strong invariant, not an eventually-consistent counter.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
}

// PostsLink returns the public URL path listing posts carrying this tag.
func (t *Tag) PostsLink() string {
	return "/posts/tag/" + t.Name
}
