package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelectKeyMap holds the keys the multi-select field reacts to.
type MultiSelectKeyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Select    key.Binding
	Commit    key.Binding
	Cancel    key.Binding
	Backspace key.Binding
	ClearLine key.Binding
}

// DefaultMultiSelectKeyMap returns the standard bindings.
func DefaultMultiSelectKeyMap() MultiSelectKeyMap {
	return MultiSelectKeyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "prev"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick"),
		),
		Commit: key.NewBinding(
			key.WithKeys(",", " "),
			key.WithHelp(", / space", "add"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "edit last"),
		),
		ClearLine: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear line"),
		),
	}
}

// Hints returns the bindings worth showing in a status bar.
func (k MultiSelectKeyMap) Hints() []key.Binding {
	return []key.Binding{k.Next, k.Select, k.Commit, k.Backspace, k.Cancel}
}

// AppKeyMap holds the host-level keys.
type AppKeyMap struct {
	Focus  key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// DefaultAppKeyMap returns the standard host bindings.
func DefaultAppKeyMap() AppKeyMap {
	return AppKeyMap{
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "done"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
	}
}

// isTyping reports whether msg carries literal text for the field.
func isTyping(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 0
}
