package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application level key bindings. Component keys
// (form fields, list navigation) live with their components.
type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	Escape      key.Binding
	Confirm     key.Binding
	FocusForm   key.Binding
	FocusSearch key.Binding
	Reload      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter", "okay"),
		),
		FocusForm: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "add ingredient"),
		),
		FocusSearch: key.NewBinding(
			key.WithKeys("f", "s"),
			key.WithHelp("f", "filter by title"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
