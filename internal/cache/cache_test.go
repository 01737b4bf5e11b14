// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// testValkeyClient returns a client for tests, skipping if Valkey is
// unavailable. Test keys are cleared on cleanup.
func testValkeyClient(t *testing.T) *PostCache {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client, err := ConnectValkey(host, port, password)
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	pc := NewPostCache(client, 1*time.Minute)
	t.Cleanup(func() {
		pc.InvalidateAll(context.Background())
		client.Close()
	})
	return pc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestPostCacheSetAndGet(t *testing.T) {
	pc := testValkeyClient(t)
	ctx := context.Background()

	key := PermalinkKey(2026, 3, "cache-roundtrip")
	body := []byte(`{"id":1,"title":"Cached"}`)

	pc.Set(ctx, key, body)

	got, ok := pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != string(body) {
		t.Errorf("got %q, want %q", got, body)
	}
}

func TestPostCacheMiss(t *testing.T) {
	pc := testValkeyClient(t)

	if _, ok := pc.Get(context.Background(), PermalinkKey(1999, 1, "never-stored")); ok {
		t.Error("expected cache miss")
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	pc := testValkeyClient(t)
	ctx := context.Background()

	key := ListKey(1)
	pc.Set(ctx, key, []byte("{}"))
	pc.Invalidate(ctx, key)

	if _, ok := pc.Get(ctx, key); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestPostCacheInvalidateAll(t *testing.T) {
	pc := testValkeyClient(t)
	ctx := context.Background()

	keys := []string{ListKey(1), TagListKey("go", 1), PermalinkKey(2026, 1, "a")}
	for _, key := range keys {
		pc.Set(ctx, key, []byte("{}"))
	}

	pc.InvalidateAll(ctx)

	for _, key := range keys {
		if _, ok := pc.Get(ctx, key); ok {
			t.Errorf("key %q survived InvalidateAll", key)
		}
	}
}

func TestCacheKeys(t *testing.T) {
	if got := PermalinkKey(2026, 3, "my-post"); got != "permalink:2026:3:my-post" {
		t.Errorf("PermalinkKey: got %q", got)
	}
	if got := ListKey(2); got != "list:2" {
		t.Errorf("ListKey: got %q", got)
	}
	if got := TagListKey("go", 1); got != "tag:go:1" {
		t.Errorf("TagListKey: got %q", got)
	}
}
