package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the drill key bindings.
type KeyMap struct {
	LookLeft  key.Binding
	LookRight key.Binding
	LookUp    key.Binding
	LookDown  key.Binding
	Forward   key.Binding
	Back      key.Binding
	Left      key.Binding
	Right     key.Binding
	Fire      key.Binding
	Reload    key.Binding
	Start     key.Binding
	Reset     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LookLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "look left"),
		),
		LookRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "look right"),
		),
		LookUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "look up"),
		),
		LookDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "look down"),
		),
		Forward: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "forward"),
		),
		Back: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "back"),
		),
		Left: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "strafe left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "strafe right"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "fire"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset rounds"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}
