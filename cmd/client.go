package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kirksw/orgscope/internal/cache"
	"github.com/kirksw/orgscope/internal/config"
	"github.com/kirksw/orgscope/internal/github"
	"github.com/kirksw/orgscope/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// stack is the wired fetch pipeline shared by the commands:
// cache -> metrics -> HTTP.
type stack struct {
	cfg      *config.Config
	cache    *cache.PayloadCache
	fetcher  github.JSONFetcher
	registry *prometheus.Registry
}

func loadConfigAndCache() (*config.Config, *cache.PayloadCache, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	c := cache.New(cfg.GetCacheDir())

	if ttl := cfg.GetCacheTTL(); ttl > 0 {
		c.SetTTL(ttl)
	}

	if ttlString != "" {
		duration, err := time.ParseDuration(ttlString)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid TTL format: %w", err)
		}
		c.SetTTL(duration)
	}

	return cfg, c, nil
}

func newStack() (*stack, error) {
	cfg, c, err := loadConfigAndCache()
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	registry := prometheus.NewRegistry()

	var fetcher github.JSONFetcher = github.NewHTTPFetcher(cfg.GetGitHubToken(), github.WithLogger(logger))
	fetcher = metrics.NewFetcher(fetcher, registry)
	if cfg.CacheEnabled() && !noCache {
		fetcher = cache.NewFetcher(c, fetcher, logger)
	}

	return &stack{
		cfg:      cfg,
		cache:    c,
		fetcher:  fetcher,
		registry: registry,
	}, nil
}

func (s *stack) newClient(org string) *github.OrgClient {
	return github.NewOrgClient(org, s.fetcher, github.WithBaseURL(s.cfg.GitHub.BaseURL))
}

// orgArgs resolves organizations from the arguments, falling back to the
// configured list.
func orgArgs(cfg *config.Config, args []string) ([]string, error) {
	raw := args
	if len(raw) == 0 {
		raw = cfg.GetOrganizations()
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no organizations specified in config or as argument")
	}

	orgs := make([]string, 0, len(raw))
	for _, input := range raw {
		org, err := config.ParseOrgName(input)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}
