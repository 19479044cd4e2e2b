package cmd

import "testing"

func TestBelongsToOrg(t *testing.T) {
	tests := []struct {
		name string
		url  string
		org  string
		want bool
	}{
		{name: "org payload", url: "https://api.github.com/orgs/google", org: "google", want: true},
		{name: "repos payload", url: "https://api.github.com/orgs/google/repos", org: "google", want: true},
		{name: "next page", url: "https://api.github.com/orgs/google?page=2", org: "google", want: true},
		{name: "prefix of another org", url: "https://api.github.com/orgs/googleapis/repos", org: "google", want: false},
		{name: "unrelated", url: "https://api.github.com/orgs/abc", org: "google", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := belongsToOrg(tt.url, tt.org); got != tt.want {
				t.Errorf("belongsToOrg(%q, %q) = %v, want %v", tt.url, tt.org, got, tt.want)
			}
		})
	}
}
