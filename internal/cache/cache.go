package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirksw/orgscope/internal/clock"
	"github.com/kirksw/orgscope/internal/github"
)

const CacheDir = ".cache/orgscope"
const DefaultTTL = 24 * time.Hour

// PayloadCache stores fetched JSON payloads on disk, one file per URL.
type PayloadCache struct {
	cacheDir string
	ttl      time.Duration
	clock    clock.Clock
}

type CachedPayload struct {
	URL      string    `json:"url"`
	Payload  any       `json:"payload"`
	CachedAt time.Time `json:"cached_at"`
	TTL      string    `json:"ttl"`
}

type CacheMetadata struct {
	URL           string        `json:"url"`
	LastRefreshed time.Time     `json:"last_refreshed"`
	TTL           time.Duration `json:"ttl"`
}

type Entry struct {
	URL      string
	CachedAt time.Time
	Expired  bool
}

// New opens the cache under dir, or ~/.cache/orgscope when dir is empty.
func New(dir string) *PayloadCache {
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, CacheDir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		dir = os.TempDir()
	}

	return &PayloadCache{
		cacheDir: dir,
		ttl:      DefaultTTL,
		clock:    clock.Real(),
	}
}

func (c *PayloadCache) SetTTL(ttl time.Duration) {
	c.ttl = ttl
}

func (c *PayloadCache) Dir() string {
	return c.cacheDir
}

// Get returns the cached payload for url unless it is missing or expired.
func (c *PayloadCache) Get(url string) (*CachedPayload, error) {
	cached, err := c.GetStale(url)
	if err != nil {
		return nil, err
	}

	if c.IsExpired(url) {
		return nil, fmt.Errorf("cache expired for %s", url)
	}

	return cached, nil
}

// GetStale returns the cached payload for url regardless of age.
func (c *PayloadCache) GetStale(url string) (*CachedPayload, error) {
	return readPayload(c.payloadPath(url), url)
}

func (c *PayloadCache) Set(url string, payload any) error {
	now := c.clock.Now()

	cached := CachedPayload{
		URL:      url,
		Payload:  payload,
		CachedAt: now,
		TTL:      c.ttl.String(),
	}

	data, err := json.MarshalIndent(cached, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(c.payloadPath(url), data, 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	metadata := CacheMetadata{
		URL:           url,
		LastRefreshed: now,
		TTL:           c.ttl,
	}

	metaData, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(c.metadataPath(url), metaData, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

func (c *PayloadCache) Invalidate(url string) error {
	if err := os.Remove(c.payloadPath(url)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	if err := os.Remove(c.metadataPath(url)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	return nil
}

// Entries lists every cached URL, oldest first.
func (c *PayloadCache) Entries() ([]Entry, error) {
	var entries []Entry

	dirEntries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache dir: %w", err)
	}

	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".meta.json") {
			continue
		}

		cached, err := readPayload(filepath.Join(c.cacheDir, name), "")
		if err != nil || cached.URL == "" {
			continue
		}

		entries = append(entries, Entry{
			URL:      cached.URL,
			CachedAt: cached.CachedAt,
			Expired:  c.IsExpired(cached.URL),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CachedAt.Before(entries[j].CachedAt)
	})

	return entries, nil
}

func (c *PayloadCache) IsExpired(url string) bool {
	data, err := os.ReadFile(c.metadataPath(url))
	if err != nil {
		return true
	}

	var metadata CacheMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return true
	}

	return c.clock.Now().Sub(metadata.LastRefreshed) > metadata.TTL
}

// key maps a URL to a stable file-safe name.
func key(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}

func (c *PayloadCache) payloadPath(url string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s.json", key(url)))
}

func (c *PayloadCache) metadataPath(url string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s.meta.json", key(url)))
}

func readPayload(path, url string) (*CachedPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("not cached: %s", url)
		}
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	var cached CachedPayload
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	return &cached, nil
}

// Fetcher serves fresh payloads from the cache and delegates the rest.
type Fetcher struct {
	cache  *PayloadCache
	next   github.JSONFetcher
	logger *slog.Logger
}

func NewFetcher(cache *PayloadCache, next github.JSONFetcher, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{cache: cache, next: next, logger: logger}
}

func (f *Fetcher) GetJSON(ctx context.Context, url string) (any, error) {
	if cached, err := f.cache.Get(url); err == nil {
		f.logger.Debug("cache hit", "url", url, "cached_at", cached.CachedAt)
		return cached.Payload, nil
	}

	payload, err := f.next.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(url, payload); err != nil {
		f.logger.Warn("failed to cache payload", "url", url, "error", err)
	}

	return payload, nil
}
