package cmd

import (
	"strings"
	"testing"

	"github.com/kirksw/orgscope/internal/config"
	"github.com/kirksw/orgscope/internal/github"
)

func TestFilterByLicensePreservesOrder(t *testing.T) {
	repos := []github.Repo{
		{Name: "dagger", License: &github.License{Key: "apache-2.0"}},
		{Name: "cpp-netlib", License: &github.License{Key: "bsl-1.0"}},
		{Name: "google.github.io"},
		{Name: "kratu", License: &github.License{Key: "apache-2.0"}},
	}

	got := filterByLicense(repos, "apache-2.0")
	if len(got) != 2 || got[0].Name != "dagger" || got[1].Name != "kratu" {
		t.Fatalf("filterByLicense() = %+v, want dagger, kratu", got)
	}

	if all := filterByLicense(repos, ""); len(all) != 4 {
		t.Fatalf("filterByLicense(\"\") len = %d, want 4", len(all))
	}
}

func TestFormatRepoLine(t *testing.T) {
	line := formatRepoLine(github.Repo{
		Name:            "dagger",
		StargazersCount: 17432,
		License:         &github.License{Key: "apache-2.0"},
	})

	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		t.Fatalf("fields = %q, want 3 without a creation date", fields)
	}
	if fields[0] != "dagger" || fields[1] != "apache-2.0" || fields[2] != "17,432 stars" {
		t.Fatalf("formatRepoLine() = %q", line)
	}

	if got := formatRepoLine(github.Repo{Name: "google.github.io"}); !strings.Contains(got, "\t-\t") {
		t.Fatalf("formatRepoLine() = %q, want - for missing license", got)
	}
}

func TestRenderValue(t *testing.T) {
	got, err := renderValue("https://api.github.com/orgs/google/repos")
	if err != nil || got != "https://api.github.com/orgs/google/repos" {
		t.Fatalf("renderValue(string) = %q, %v", got, err)
	}

	got, err = renderValue(map[string]any{"key": "apache-2.0"})
	if err != nil {
		t.Fatalf("renderValue(map) error = %v", err)
	}
	if got != "{\n  \"key\": \"apache-2.0\"\n}" {
		t.Fatalf("renderValue(map) = %q", got)
	}
}

func TestOrgArgs(t *testing.T) {
	cfg := &config.Config{Organizations: config.OrganizationConfig{Orgs: []string{"google", "abc"}}}

	got, err := orgArgs(cfg, nil)
	if err != nil || strings.Join(got, ",") != "google,abc" {
		t.Fatalf("orgArgs(nil) = %v, %v, want configured orgs", got, err)
	}

	got, err = orgArgs(cfg, []string{"https://github.com/golang"})
	if err != nil || strings.Join(got, ",") != "golang" {
		t.Fatalf("orgArgs(url) = %v, %v, want golang", got, err)
	}

	if _, err := orgArgs(&config.Config{}, nil); err == nil {
		t.Fatal("orgArgs() error = nil, want error without orgs")
	}
}
