package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/ragdesk/internal/rag"
	"github.com/csheth/ragdesk/internal/session"
)

// View projects the session state onto exactly one of the two screens.
func (m *model) View() string {
	switch m.state.Auth.(type) {
	case session.Authenticated:
		return m.viewQuery()
	default:
		return m.viewLogin()
	}
}

func (m *model) viewLogin() string {
	form := strings.Join([]string{
		m.fieldRow("Email", m.username.View(), m.focus == fieldUsername),
		m.fieldRow("Password", m.password.View(), m.focus == fieldPassword),
	}, "\n")
	return joinNonEmpty([]string{
		titleStyle.Render(loginTitle),
		form,
		helperStyle.Render("Enter: login • Tab: switch field • Esc: quit"),
		m.apiLine(),
		m.errorView(),
		m.statusBarView(),
	})
}

func (m *model) viewQuery() string {
	m.refreshViewportIfDirty()
	parts := []string{
		titleStyle.Render(queryTitle),
		m.question.View(),
		m.sourceSelectorView(),
		helperStyle.Render("Enter: ask • Tab: change source • PgUp/PgDn: scroll • Esc: quit"),
	}
	if !m.state.Result.Empty() {
		parts = append(parts, m.viewport.View())
	}
	parts = append(parts, m.apiLine(), m.errorView(), m.statusBarView())
	return joinNonEmpty(parts)
}

func (m *model) fieldRow(label, input string, focused bool) string {
	marker := "  "
	if focused {
		marker = focusMarkerStyle.Render("▸ ")
	}
	return marker + labelStyle.Render(fmt.Sprintf("%-9s", label)) + input
}

func (m *model) sourceSelectorView() string {
	options := make([]string, 0, len(rag.Sources))
	for _, src := range rag.Sources {
		if src == m.state.Draft.Source {
			options = append(options, activeOptionStyle.Render(string(src)))
			continue
		}
		options = append(options, optionStyle.Render(string(src)))
	}
	return labelStyle.Render("Source   ") + lipgloss.JoinHorizontal(lipgloss.Top, options...)
}

func (m *model) apiLine() string {
	return apiStyle.Render("API: " + m.config.APILabel)
}

func (m *model) errorView() string {
	if m.state.Error == "" {
		return ""
	}
	return errorStyle.Render(m.state.Error)
}

func (m *model) statusBarView() string {
	stats := []string{"LOGIN"}
	if m.state.SignedIn() {
		stats[0] = "QUERY"
		if label := m.identity.Label(); label != "" {
			stats = append(stats, label)
		}
		if expiry := m.identity.Expiry(); expiry != "" {
			stats = append(stats, expiry)
		}
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	} else if m.lastJob.ID != "" {
		stats = append(stats, fmt.Sprintf("%s %s in %s", m.lastJob.Kind, m.lastJob.Status, m.lastJob.Duration.Round(time.Millisecond)))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	if len(m.running) == 0 {
		return nil
	}
	ids := make([]string, 0, len(m.running))
	for id := range m.running {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	badges := make([]string, 0, len(ids))
	for _, id := range ids {
		badges = append(badges, fmt.Sprintf("%s %s…", m.spinner.View(), m.running[id].Kind))
	}
	return badges
}

var (
	accentColor = lipgloss.Color("#ff8c00")

	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	focusMarkerStyle   = lipgloss.NewStyle().Foreground(accentColor)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	apiStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	optionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	activeOptionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
)
