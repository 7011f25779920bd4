package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Enter        key.Binding
	Back         key.Binding
	Refresh      key.Binding
	Filter       key.Binding
	ServerFilter key.Binding
	ClearFilters key.Binding
	SortOrder    key.Binding
	Settings     key.Binding
	Open         key.Binding
	Up           key.Binding
	Down         key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
}

var Keys = KeyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter list")),
	ServerFilter: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "search filters")),
	ClearFilters: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
	SortOrder:    key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "flip sort order")),
	Settings:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:       key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:     key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
}
