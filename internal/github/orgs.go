package github

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kirksw/orgscope/internal/nested"
)

// OrgClient exposes one organization's metadata and repositories. Payloads
// are fetched lazily and kept for the lifetime of the client; a failed
// fetch is not remembered, so the next call tries again.
type OrgClient struct {
	name    string
	baseURL string
	fetcher JSONFetcher

	mu    sync.Mutex
	org   map[string]any
	repos []any
}

type ClientOption func(*OrgClient)

// WithBaseURL points the client at another API root, e.g. a GitHub
// Enterprise host or a test server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *OrgClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func NewOrgClient(name string, fetcher JSONFetcher, opts ...ClientOption) *OrgClient {
	c := &OrgClient{
		name:    name,
		baseURL: DefaultBaseURL,
		fetcher: fetcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OrgClient) Name() string {
	return c.name
}

// OrgURL is the endpoint the organization payload is read from.
func (c *OrgClient) OrgURL() string {
	return fmt.Sprintf("%s/orgs/%s", c.baseURL, c.name)
}

// Org returns the organization payload, fetching it on first use only.
func (c *OrgClient) Org(ctx context.Context) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orgLocked(ctx)
}

func (c *OrgClient) orgLocked(ctx context.Context) (map[string]any, error) {
	if c.org != nil {
		return c.org, nil
	}

	payload, err := c.fetcher.GetJSON(ctx, c.OrgURL())
	if err != nil {
		return nil, err
	}

	org, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: org %s is %T, want object", ErrUnexpectedPayload, c.name, payload)
	}

	c.org = org
	return org, nil
}

// Info decodes the organization payload into an Org.
func (c *OrgClient) Info(ctx context.Context) (*Org, error) {
	payload, err := c.Org(ctx)
	if err != nil {
		return nil, err
	}

	var org Org
	if err := decodeInto(payload, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// PublicReposURL is the repos_url field of the organization payload.
func (c *OrgClient) PublicReposURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.publicReposURLLocked(ctx)
}

func (c *OrgClient) publicReposURLLocked(ctx context.Context) (string, error) {
	org, err := c.orgLocked(ctx)
	if err != nil {
		return "", err
	}
	return nested.Lookup[string](org, "repos_url")
}

// ReposPayload returns the raw repository list, fetching it on first use only.
func (c *OrgClient) ReposPayload(ctx context.Context) ([]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.repos != nil {
		return c.repos, nil
	}

	url, err := c.publicReposURLLocked(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := c.fetcher.GetJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	repos, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: repos of %s is %T, want array", ErrUnexpectedPayload, c.name, payload)
	}

	c.repos = repos
	return repos, nil
}

// PublicRepos lists repository names in payload order. A non-empty license
// keeps only repositories whose license key equals it exactly.
func (c *OrgClient) PublicRepos(ctx context.Context, license string) ([]string, error) {
	payload, err := c.ReposPayload(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload))
	for _, item := range payload {
		repo, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if license != "" && !HasLicense(repo, license) {
			continue
		}
		name, err := nested.Lookup[string](repo, "name")
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Repos decodes the repository payload into typed records.
func (c *OrgClient) Repos(ctx context.Context) ([]Repo, error) {
	payload, err := c.ReposPayload(ctx)
	if err != nil {
		return nil, err
	}

	var repos []Repo
	if err := decodeInto(payload, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// HasLicense reports whether repo.license.key equals key. Missing or null
// license data is a non-match.
func HasLicense(repo map[string]any, key string) bool {
	got, err := nested.Lookup[string](repo, "license", "key")
	if err != nil {
		return false
	}
	return got == key
}
