package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const DefaultServeAddr = ":8080"

type Config struct {
	Organizations OrganizationConfig `toml:"organizations"`
	GitHub        GitHubConfig       `toml:"github"`
	Cache         CacheConfig        `toml:"cache"`
	Serve         ServeConfig        `toml:"serve"`
}

type OrganizationConfig struct {
	Orgs []string `toml:"orgs"`
}

type GitHubConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

type CacheConfig struct {
	// Enabled is nil when the key is absent, which keeps caching on.
	Enabled *bool  `toml:"enabled"`
	TTL     string `toml:"ttl"`
	Dir     string `toml:"dir"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

func Load(path string) (*Config, error) {
	// A .env next to the working directory may carry GITHUB_TOKEN.
	_ = godotenv.Load()

	configPath, err := FindConfigPath(path)
	if err != nil {
		return &Config{}, nil
	}

	return LoadFile(configPath)
}

func FindConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	configPaths := []string{
		"./config.toml",
		filepath.Join(homeDir, ".config", "orgscope", "config.toml"),
		filepath.Join(homeDir, ".orgscope.toml"),
	}

	for _, p := range configPaths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found")
}

func LoadFile(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Cache.TTL != "" {
		if _, err := time.ParseDuration(cfg.Cache.TTL); err != nil {
			return nil, fmt.Errorf("invalid cache ttl %q: %w", cfg.Cache.TTL, err)
		}
	}

	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}

	return &cfg, nil
}

func (c *Config) GetOrganizations() []string {
	return c.Organizations.Orgs
}

var (
	ghTokenCache   string
	ghTokenCached  bool
	ghTokenCacheMu sync.RWMutex
)

func getGitHubCLIAuthToken() (string, error) {
	ghTokenCacheMu.RLock()
	if ghTokenCached {
		token := ghTokenCache
		ghTokenCacheMu.RUnlock()
		return token, nil
	}
	ghTokenCacheMu.RUnlock()

	cmd := exec.Command("gh", "auth", "token")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(output))

	ghTokenCacheMu.Lock()
	ghTokenCache = token
	ghTokenCached = true
	ghTokenCacheMu.Unlock()

	return token, nil
}

// GetGitHubToken prefers the gh CLI session, then the config file, then
// GITHUB_TOKEN. An empty result means unauthenticated requests.
func (c *Config) GetGitHubToken() string {
	token, err := getGitHubCLIAuthToken()
	if err == nil && token != "" {
		return token
	}

	if c.GitHub.Token != "" {
		return c.GitHub.Token
	}

	return os.Getenv("GITHUB_TOKEN")
}

func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// GetCacheTTL returns the configured TTL, or zero when unset.
func (c *Config) GetCacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return 0
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0
	}
	return ttl
}

func (c *Config) GetCacheDir() string {
	return expandHome(c.Cache.Dir)
}

func (c *Config) GetServeAddr() string {
	if c.Serve.Addr == "" {
		return DefaultServeAddr
	}
	return c.Serve.Addr
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[2:])
		}
	}
	return dir
}

// ParseOrgName accepts "google", "github.com/google" or
// "https://github.com/google" and returns "google".
func ParseOrgName(input string) (string, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "https://")
	input = strings.TrimPrefix(input, "http://")
	input = strings.TrimPrefix(input, "github.com/")
	input = strings.Trim(input, "/")

	if input == "" || strings.Contains(input, "/") {
		return "", fmt.Errorf("invalid organization: %q", input)
	}
	return input, nil
}
