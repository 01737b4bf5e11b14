// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed cache of public post API responses.
// Rendered post JSON (including the Markdown-to-HTML output) is stored so
// repeat reads of the same permalink or listing page skip the database and
// the Markdown renderer entirely. Stale reads are acceptable here; the
// store's counts and associations are never cached.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long a cached response stays valid.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages cached post API responses in Valkey.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a post response cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body. The second return is false on miss.
func (pc *PostCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, postKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "key", key)
	return val, true
}

// Set stores a response body for key with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, postKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a single cached response by key.
func (pc *PostCache) Invalidate(ctx context.Context, key string) {
	if err := pc.client.Del(ctx, postKeyPrefix+key).Err(); err != nil {
		slog.Warn("post cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("post cache invalidated", "key", key)
}

// InvalidateAll removes every cached response by scanning for the prefix.
// Any write to a post can change listing pages, tag pages and search
// results, so writes clear the whole response cache.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache fully cleared", "deleted", deleted)
	}
}

// PermalinkKey returns the cache key for a single published post.
func PermalinkKey(year, month int, slug string) string {
	return fmt.Sprintf("permalink:%d:%d:%s", year, month, slug)
}

// ListKey returns the cache key for a page of the public post listing.
func ListKey(page int) string {
	return fmt.Sprintf("list:%d", page)
}

// TagListKey returns the cache key for a page of posts filtered by tag.
func TagListKey(tag string, page int) string {
	return fmt.Sprintf("tag:%s:%d", tag, page)
}
