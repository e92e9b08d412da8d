package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up         key.Binding // k - move up
	Down       key.Binding // j - move down
	Top        key.Binding // g - jump to top
	Bottom     key.Binding // G - jump to bottom
	UseClaude  key.Binding // c - activate claude endpoint
	UseCodex   key.Binding // x - activate codex endpoint
	Refresh    key.Binding // r - refresh status of selected config
	RefreshAll key.Binding // R - refresh status of all configs
	Website    key.Binding // o - open provider website
	Quit       key.Binding // q - quit
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		UseClaude: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "use for claude"),
		),
		UseCodex: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "use for codex"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh status"),
		),
		RefreshAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh all"),
		),
		Website: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open website"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.UseClaude, k.UseCodex, k.Refresh, k.RefreshAll, k.Quit}
}
