package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/config"
	"ccswitch/internal/utils"
)

// Run starts the TUI over mgr and blocks until the user quits.
func Run(mgr *config.Manager) error {
	if !isTerminal() {
		return fmt.Errorf("the TUI requires a terminal; use subcommands for non-interactive mode")
	}

	p := tea.NewProgram(NewModel(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func openWebsite(url string) tea.Cmd {
	return func() tea.Msg {
		if err := utils.OpenBrowser(url); err != nil {
			return errMsg{err}
		}
		return noticeMsg("opened " + url)
	}
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
