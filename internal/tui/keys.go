package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the TUI
type keyMap struct {
	search  key.Binding
	fuzzy   key.Binding
	enter   key.Binding
	back    key.Binding
	login   key.Binding
	logout  key.Binding
	imports key.Binding
	refresh key.Binding
	delete  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		fuzzy:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "fuzzy")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		login:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login")),
		logout:  key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "logout")),
		imports: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
