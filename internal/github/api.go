package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirksw/orgscope/internal/version"
)

const DefaultBaseURL = "https://api.github.com"

// JSONFetcher retrieves a URL and returns its body decoded as generic JSON
// (map[string]any, []any, string, float64, bool or nil).
type JSONFetcher interface {
	GetJSON(ctx context.Context, url string) (any, error)
}

// FetcherFunc adapts a function to JSONFetcher.
type FetcherFunc func(ctx context.Context, url string) (any, error)

func (f FetcherFunc) GetJSON(ctx context.Context, url string) (any, error) {
	return f(ctx, url)
}

// APIError is a non-200 response from the API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d) for %s: %s", e.StatusCode, e.URL, e.Message)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// HTTPFetcher is the JSONFetcher backed by the GitHub REST API.
type HTTPFetcher struct {
	token  string
	client *http.Client
	logger *slog.Logger
}

type FetcherOption func(*HTTPFetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) { f.client = client }
}

func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) { f.logger = logger }
}

func NewHTTPFetcher(token string, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		token: token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// GetJSON fetches url. When the body is a JSON array and the response
// carries a rel="next" Link, the following pages are fetched and appended.
func (f *HTTPFetcher) GetJSON(ctx context.Context, url string) (any, error) {
	var (
		items   []any
		isArray bool
	)

	for url != "" {
		payload, next, err := f.getPage(ctx, url)
		if err != nil {
			return nil, err
		}

		page, ok := payload.([]any)
		if !ok {
			if isArray {
				return nil, fmt.Errorf("%w: page %s is not an array", ErrUnexpectedPayload, url)
			}
			return payload, nil
		}

		isArray = true
		items = append(items, page...)
		url = next
	}

	if items == nil {
		items = []any{}
	}
	return items, nil
}

func (f *HTTPFetcher) getPage(ctx context.Context, url string) (any, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	f.setAuth(req)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	f.logger.Debug("fetched json",
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    apiMessage(body),
			URL:        url,
		}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return payload, extractNextURL(resp.Header.Get("Link")), nil
}

func (f *HTTPFetcher) setAuth(req *http.Request) {
	if f.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s", f.token))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", version.UserAgent())
}

// apiMessage prefers the "message" field GitHub puts in error bodies.
func apiMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(body))
}

func extractNextURL(linkHeader string) string {
	if linkHeader == "" {
		return ""
	}

	links := strings.Split(linkHeader, ",")
	for _, link := range links {
		if strings.Contains(link, `rel="next"`) {
			parts := strings.Split(link, ";")
			if len(parts) > 0 {
				url := strings.TrimSpace(parts[0])
				url = strings.Trim(url, "<>")
				return url
			}
		}
	}

	return ""
}
