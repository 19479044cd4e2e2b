package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/kirksw/orgscope/internal/clock"
	"github.com/kirksw/orgscope/internal/github"
)

func newTestCache(t *testing.T) (*PayloadCache, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	return &PayloadCache{
		cacheDir: t.TempDir(),
		ttl:      DefaultTTL,
		clock:    fake,
	}, fake
}

const orgURL = "https://api.github.com/orgs/acme"

func TestSetThenGet(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.Set(orgURL, map[string]any{"login": "acme"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	cached, err := c.Get(orgURL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cached.URL != orgURL {
		t.Fatalf("URL = %s, want %s", cached.URL, orgURL)
	}
	payload, ok := cached.Payload.(map[string]any)
	if !ok || payload["login"] != "acme" {
		t.Fatalf("Payload = %#v, want login acme", cached.Payload)
	}
}

func TestGetExpiresAfterTTL(t *testing.T) {
	c, fake := newTestCache(t)
	c.SetTTL(time.Hour)

	if err := c.Set(orgURL, map[string]any{"login": "acme"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	fake.Advance(30 * time.Minute)
	if _, err := c.Get(orgURL); err != nil {
		t.Fatalf("Get() before TTL error = %v", err)
	}

	fake.Advance(time.Hour)
	if _, err := c.Get(orgURL); err == nil {
		t.Fatal("Get() after TTL error = nil, want expired")
	}

	if _, err := c.GetStale(orgURL); err != nil {
		t.Fatalf("GetStale() error = %v", err)
	}
}

func TestMissingMetadataCountsAsExpired(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.Set(orgURL, []any{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := os.Remove(c.metadataPath(orgURL)); err != nil {
		t.Fatalf("failed to remove metadata: %v", err)
	}

	if !c.IsExpired(orgURL) {
		t.Fatal("IsExpired() = false, want true without metadata")
	}
}

func TestInvalidateAndEntries(t *testing.T) {
	c, fake := newTestCache(t)
	reposURL := orgURL + "/repos"

	if err := c.Set(orgURL, map[string]any{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	fake.Advance(time.Minute)
	if err := c.Set(reposURL, []any{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 2 || entries[0].URL != orgURL || entries[1].URL != reposURL {
		t.Fatalf("Entries() = %+v, want org then repos", entries)
	}

	if err := c.Invalidate(orgURL); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if err := c.Invalidate(orgURL); err != nil {
		t.Fatalf("second Invalidate() error = %v", err)
	}

	entries, err = c.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	if len(entries) != 1 || entries[0].URL != reposURL {
		t.Fatalf("Entries() = %+v, want only repos", entries)
	}
}

func TestFetcherServesFreshEntries(t *testing.T) {
	c, fake := newTestCache(t)
	c.SetTTL(time.Hour)

	calls := 0
	next := github.FetcherFunc(func(ctx context.Context, url string) (any, error) {
		calls++
		return map[string]any{"login": "acme"}, nil
	})
	f := NewFetcher(c, next, nil)

	for i := 0; i < 3; i++ {
		if _, err := f.GetJSON(context.Background(), orgURL); err != nil {
			t.Fatalf("GetJSON() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	fake.Advance(2 * time.Hour)
	if _, err := f.GetJSON(context.Background(), orgURL); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls after expiry = %d, want 2", calls)
	}
}

func TestFetcherDoesNotCacheErrors(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")

	f := NewFetcher(c, github.FetcherFunc(func(ctx context.Context, url string) (any, error) {
		return nil, boom
	}), nil)

	if _, err := f.GetJSON(context.Background(), orgURL); !errors.Is(err, boom) {
		t.Fatalf("GetJSON() error = %v, want %v", err, boom)
	}
	if _, err := c.GetStale(orgURL); err == nil {
		t.Fatal("error result was cached")
	}
}

func TestKeyIsStable(t *testing.T) {
	if key(orgURL) != key(orgURL) {
		t.Fatal("key() not deterministic")
	}
	if key(orgURL) == key(orgURL+"/repos") {
		t.Fatal("key() collided for different URLs")
	}
}
