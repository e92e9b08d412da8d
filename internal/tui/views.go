package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ccswitch/config/models"
	"ccswitch/internal/utils"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// View renders the full screen
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Provider Configurations"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.effectiveWidth())))
	b.WriteString("\n\n")

	if len(m.summaries) == 0 {
		b.WriteString(dimStyle.Render("no configurations yet, use 'ccswitch serve' or the bridge to add one"))
		b.WriteString("\n")
	} else {
		for i, s := range m.summaries {
			b.WriteString(m.renderLine(i, s))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.effectiveWidth())))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderLine(i int, s models.Summary) string {
	cursor := "  "
	style := normalStyle
	if i == m.cursor {
		cursor = "> "
		style = selectedStyle
	}

	line := cursor + s.Name
	badges := []string{endpointBadge("claude", s.Claude), endpointBadge("codex", s.Codex)}
	line += "  " + strings.Join(badges, " ")

	if snap := s.Snapshot; snap != nil {
		line += "  " + dimStyle.Render(snapshotText(snap))
	}
	return style.Render(line)
}

func endpointBadge(label string, ep *models.EndpointSummary) string {
	if ep == nil {
		return dimStyle.Render("[" + label + " -]")
	}
	text := "[" + label
	if ep.IsActive {
		text += " *"
	}
	if host := utils.ExtractHost(ep.BaseURL); host != "" {
		text += " " + host
	}
	if !ep.HasCredentials {
		text += " no-key"
	}
	text += "]"
	if ep.IsActive {
		return activeStyle.Render(text)
	}
	return normalStyle.Render(text)
}

func snapshotText(snap *models.Snapshot) string {
	switch snap.State {
	case models.SnapshotAuth:
		return "auth expired"
	case models.SnapshotError:
		if snap.Message != "" {
			return snap.Message
		}
		return "error"
	}
	parts := make([]string, 0, 3)
	if snap.Balance != "" {
		parts = append(parts, "bal "+snap.Balance)
	}
	if snap.Usage != "" {
		parts = append(parts, "used "+snap.Usage)
	}
	if snap.Total != "" {
		parts = append(parts, "total "+snap.Total)
	}
	if len(parts) == 0 {
		return snap.Message
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	if m.refreshing {
		return m.spinner.View() + dimStyle.Render(" refreshing...")
	}
	if m.errorMsg != "" {
		return errorStyle.Render(m.errorMsg)
	}
	if m.message != "" {
		return messageStyle.Render(m.message)
	}

	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return helpStyle.Render(strings.Join(parts, " · "))
}

func (m Model) effectiveWidth() int {
	if m.width <= 0 || m.width > 80 {
		return 80
	}
	return m.width
}
