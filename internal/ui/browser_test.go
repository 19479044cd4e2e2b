package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kirksw/orgscope/internal/github"
)

func testRepos() []github.Repo {
	return []github.Repo{
		{Name: "episodes.dart", Description: "dart episodes", License: &github.License{Key: "bsd-3-clause"}},
		{Name: "dagger", Description: "dependency injection", License: &github.License{Key: "apache-2.0"}},
		{Name: "google.github.io"},
		{Name: "kratu", Description: "report dashboards", License: &github.License{Key: "apache-2.0"}},
	}
}

func itemNames(m browserModel) []string {
	var names []string
	for _, item := range m.list.Items() {
		names = append(names, item.(repoItem).Name)
	}
	return names
}

func TestLicenseChoices(t *testing.T) {
	got := licenseChoices(testRepos())
	want := []string{"", "bsd-3-clause", "apache-2.0"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("licenseChoices() = %q, want %q", got, want)
	}
}

func TestBrowserTabCyclesLicenseFilter(t *testing.T) {
	m := newBrowserModel("google", testRepos(), "")
	if len(m.list.Items()) != 4 {
		t.Fatalf("all items=%d, want 4", len(m.list.Items()))
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(browserModel)
	if m.currentLicense() != "bsd-3-clause" {
		t.Fatalf("license=%q, want bsd-3-clause", m.currentLicense())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(browserModel)
	if got := strings.Join(itemNames(m), ","); got != "dagger,kratu" {
		t.Fatalf("apache items=%s, want dagger,kratu", got)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(browserModel)
	if m.currentLicense() != "" {
		t.Fatalf("license=%q, want wrap to all", m.currentLicense())
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = updated.(browserModel)
	if m.currentLicense() != "apache-2.0" {
		t.Fatalf("license=%q, want apache-2.0 after shift+tab", m.currentLicense())
	}
}

func TestBrowserInitialLicense(t *testing.T) {
	m := newBrowserModel("google", testRepos(), "apache-2.0")
	if got := strings.Join(itemNames(m), ","); got != "dagger,kratu" {
		t.Fatalf("items=%s, want dagger,kratu", got)
	}
}

func TestBrowserQueryFilters(t *testing.T) {
	m := newBrowserModel("google", testRepos(), "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("dash")})
	m = updated.(browserModel)
	if got := strings.Join(itemNames(m), ","); got != "kratu" {
		t.Fatalf("items=%s, want kratu", got)
	}
}

func TestBrowserEnterSelects(t *testing.T) {
	m := newBrowserModel("google", testRepos(), "apache-2.0")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(browserModel)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(browserModel)

	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if m.selected == nil || m.selected.Name != "kratu" {
		t.Fatalf("selected=%v, want kratu", m.selected)
	}
}

func TestBrowserEscCancels(t *testing.T) {
	m := newBrowserModel("google", testRepos(), "")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(browserModel)
	if !m.cancelled || m.selected != nil {
		t.Fatalf("cancelled=%v selected=%v, want cancelled without selection", m.cancelled, m.selected)
	}
}
