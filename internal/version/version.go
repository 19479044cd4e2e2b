// Package version carries the release number baked in from VERSION.
package version

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var raw string

// Value is the semantic version, e.g. "0.1.0".
var Value = strings.TrimSpace(raw)

// UserAgent identifies orgscope to the GitHub API, which rejects requests
// without one.
func UserAgent() string {
	return "orgscope/" + Value
}
