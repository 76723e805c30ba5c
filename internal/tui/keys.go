package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Editor key.Binding
	Saved  key.Binding

	// Actions
	Select    key.Binding
	New       key.Binding
	Delete    key.Binding
	Save      key.Binding
	Export    key.Binding
	AddItem   key.Binding
	FieldFrom key.Binding
	FieldTo   key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Editor:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "editor")),
	Saved:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "saved")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/confirm")),
	New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new invoice")),
	Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s", "w"), key.WithHelp("w", "save")),
	Export:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
	AddItem:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
	FieldFrom: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "add from field")),
	FieldTo:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add to field")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}
