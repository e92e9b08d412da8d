// Package tui provides the interactive terminal frontend: the provider
// list with activation markers, balance snapshots and one-key switching.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/config"
	"ccswitch/config/models"
)

// Model is the core state model for the TUI
type Model struct {
	mgr       *config.Manager
	keys      KeyMap
	summaries []models.Summary
	cursor    int

	refreshing bool
	spinner    spinner.Model

	message  string // status message
	errorMsg string // error message

	width  int
	height int
}

// Messages delivered back into Update by commands.
type (
	summariesMsg   []models.Summary
	refreshDoneMsg []models.Summary
	errMsg         struct{ err error }
	noticeMsg      string
)

// NewModel creates a new TUI model
func NewModel(mgr *config.Manager) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		mgr:     mgr,
		keys:    DefaultKeyMap(),
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return loadSummaries(m.mgr)
}

func loadSummaries(mgr *config.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.Redetect()
		return summariesMsg(mgr.ListSummaries())
	}
}

func refreshOne(mgr *config.Manager, id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := mgr.RefreshStatus(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return refreshDoneMsg(mgr.ListSummaries())
	}
}

func refreshAll(mgr *config.Manager) tea.Cmd {
	return func() tea.Msg {
		mgr.RefreshAll(context.Background())
		return refreshDoneMsg(mgr.ListSummaries())
	}
}

func setActive(mgr *config.Manager, id string, kind models.EndpointKind) tea.Cmd {
	return func() tea.Msg {
		if err := mgr.SetActive(id, kind); err != nil {
			return errMsg{err}
		}
		return noticeMsg("switched " + string(kind) + " endpoint")
	}
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case summariesMsg:
		m.summaries = msg
		m.clampCursor()
		return m, nil

	case refreshDoneMsg:
		m.refreshing = false
		m.summaries = msg
		m.clampCursor()
		return m, nil

	case noticeMsg:
		m.message = string(msg)
		m.errorMsg = ""
		return m, loadSummaries(m.mgr)

	case errMsg:
		m.refreshing = false
		m.errorMsg = msg.err.Error()
		m.message = ""
		return m, nil

	case spinner.TickMsg:
		if !m.refreshing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.summaries)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(m.summaries) > 0 {
			m.cursor = len(m.summaries) - 1
		}
		return m, nil

	case key.Matches(msg, m.keys.UseClaude):
		if s, ok := m.current(); ok {
			m.message, m.errorMsg = "", ""
			return m, setActive(m.mgr, s.ID, models.EndpointClaude)
		}
		return m, nil

	case key.Matches(msg, m.keys.UseCodex):
		if s, ok := m.current(); ok {
			m.message, m.errorMsg = "", ""
			return m, setActive(m.mgr, s.ID, models.EndpointCodex)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if s, ok := m.current(); ok && !m.refreshing {
			m.refreshing = true
			m.message, m.errorMsg = "", ""
			return m, tea.Batch(m.spinner.Tick, refreshOne(m.mgr, s.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.RefreshAll):
		if !m.refreshing && len(m.summaries) > 0 {
			m.refreshing = true
			m.message, m.errorMsg = "", ""
			return m, tea.Batch(m.spinner.Tick, refreshAll(m.mgr))
		}
		return m, nil

	case key.Matches(msg, m.keys.Website):
		if s, ok := m.current(); ok && s.Website != "" {
			m.message, m.errorMsg = "", ""
			return m, openWebsite(s.Website)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) current() (models.Summary, bool) {
	if m.cursor < 0 || m.cursor >= len(m.summaries) {
		return models.Summary{}, false
	}
	return m.summaries[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.summaries) {
		m.cursor = len(m.summaries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
