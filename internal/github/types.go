package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrUnexpectedPayload = errors.New("unexpected payload shape")

type Org struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ReposURL    string `json:"repos_url"`
	PublicRepos int    `json:"public_repos"`
	HTMLURL     string `json:"html_url"`
}

type License struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	SPDXID string `json:"spdx_id"`
}

type Repo struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	Fork            bool      `json:"fork"`
	CreatedAt       time.Time `json:"created_at"`
	License         *License  `json:"license"`
}

// LicenseKey returns the repository's license key or "" when it has none.
func (r Repo) LicenseKey() string {
	if r.License == nil {
		return ""
	}
	return r.License.Key
}

// decodeInto converts a generic JSON value into a typed record.
func decodeInto(payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
