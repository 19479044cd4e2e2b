package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/kirksw/orgscope/internal/github"
)

// allLicenses is the license filter slot that keeps every repository.
const allLicenses = ""

type BrowseResult struct {
	Repo      *github.Repo
	License   string
	Cancelled bool
}

type repoItem struct {
	github.Repo
}

func (i repoItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.Name, i.Description)
}

type repoDelegate struct{}

func (d repoDelegate) Height() int                             { return 2 }
func (d repoDelegate) Spacing() int                            { return 1 }
func (d repoDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d repoDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(repoItem)
	if !ok {
		return
	}

	var style lipgloss.Style
	if index == m.Index() {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	} else {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}

	license := item.LicenseKey()
	if license == "" {
		license = "none"
	}

	text := fmt.Sprintf("%s  [%s]  ★ %s", item.Name, license, humanize.Comma(int64(item.StargazersCount)))
	if item.Description != "" {
		text += fmt.Sprintf("\n  %s", truncateString(item.Description, 60))
	}
	fmt.Fprint(w, style.Render(text))
}

type browserModel struct {
	org       string
	repos     []github.Repo
	licenses  []string
	license   int
	input     textinput.Model
	list      list.Model
	lastInput string
	selected  *github.Repo
	cancelled bool
	quitting  bool
}

func newBrowserModel(org string, repos []github.Repo, license string) browserModel {
	input := textinput.New()
	input.Placeholder = "Search..."
	input.Focus()
	input.CharLimit = 256
	input.Width = 80

	l := list.New(nil, repoDelegate{}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.SetWidth(80)
	l.SetHeight(12)

	m := browserModel{
		org:      org,
		repos:    repos,
		licenses: licenseChoices(repos),
		input:    input,
		list:     l,
	}
	for i, key := range m.licenses {
		if key == license {
			m.license = i
		}
	}
	m.refreshItems()
	return m
}

// licenseChoices returns the "all" slot followed by each license key in
// order of first appearance.
func licenseChoices(repos []github.Repo) []string {
	choices := []string{allLicenses}
	seen := make(map[string]struct{})
	for _, repo := range repos {
		key := repo.LicenseKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		choices = append(choices, key)
	}
	return choices
}

func (m browserModel) currentLicense() string {
	return m.licenses[m.license]
}

func (m browserModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		listHeight := msg.Height - 8
		if listHeight < 4 {
			listHeight = 4
		}
		m.list.SetHeight(listHeight)
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.quitting = true
			return m, tea.Quit
		case tea.KeyTab:
			m.license = (m.license + 1) % len(m.licenses)
			m.refreshItems()
			return m, nil
		case tea.KeyShiftTab:
			m.license = (m.license + len(m.licenses) - 1) % len(m.licenses)
			m.refreshItems()
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN:
			m.list.CursorDown()
			return m, nil
		case tea.KeyUp, tea.KeyCtrlP:
			m.list.CursorUp()
			return m, nil
		case tea.KeyEnter:
			item, ok := m.list.SelectedItem().(repoItem)
			if !ok {
				return m, nil
			}
			repo := item.Repo
			m.selected = &repo
			m.quitting = true
			return m, tea.Quit
		}
	}

	input, cmd := m.input.Update(msg)
	m.input = input
	if current := m.input.Value(); current != m.lastInput {
		m.lastInput = current
		m.refreshItems()
	}

	return m, cmd
}

func (m *browserModel) refreshItems() {
	m.list.SetItems(m.filterItems(m.input.Value()))
	m.list.ResetSelected()
}

func (m browserModel) filterItems(query string) []list.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	license := m.currentLicense()

	items := make([]list.Item, 0, len(m.repos))
	for _, repo := range m.repos {
		if license != allLicenses && repo.LicenseKey() != license {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(repo.Name), query) &&
			!strings.Contains(strings.ToLower(repo.Description), query) {
			continue
		}
		items = append(items, repoItem{Repo: repo})
	}
	return items
}

func (m browserModel) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true)
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	instructionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	var licenseLabel strings.Builder
	for i, key := range m.licenses {
		if i > 0 {
			licenseLabel.WriteString("  ")
		}
		text := key
		if key == allLicenses {
			text = "all"
		}
		if i == m.license {
			licenseLabel.WriteString(selectedStyle.Render("▶ " + text))
		} else {
			licenseLabel.WriteString(normalStyle.Render(text))
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("orgscope: %s (%d repos)", m.org, len(m.repos))))
	b.WriteString("\n")
	b.WriteString(licenseLabel.String())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.list.Items()) > 0 {
		b.WriteString(m.list.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("No repositories found"))
	}

	b.WriteString("\n\n")
	b.WriteString(instructionStyle.Render("up/down: navigate | tab/shift+tab: license | enter: select | esc: cancel"))
	return b.String()
}

// RunBrowser shows repos in an interactive list, starting with the given
// license filter ("" for all).
func RunBrowser(org string, repos []github.Repo, license string) (*BrowseResult, error) {
	p := tea.NewProgram(newBrowserModel(org, repos, license), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run browser: %w", err)
	}

	m, ok := finalModel.(browserModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	return &BrowseResult{
		Repo:      m.selected,
		License:   m.currentLicense(),
		Cancelled: m.cancelled,
	}, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
