package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Editor  key.Binding
	Company key.Binding
	Themes  key.Binding
	Metrics key.Binding

	// Actions
	Select    key.Binding
	New       key.Binding
	NewHourly key.Binding
	Delete    key.Binding
	Export    key.Binding
	Force     key.Binding
	Reset     key.Binding
	Save      key.Binding
	Switch    key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Editor:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "items")),
	Company:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "company")),
	Themes:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "theme")),
	Metrics:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "metrics")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new item")),
	NewHourly: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new hourly")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export pdf")),
	Force:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "force update")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Switch:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch list")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
