package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PlayPause  key.Binding
	Enter      key.Binding
	PlayFolder key.Binding
	Back       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Up         key.Binding
	Down       key.Binding
	VolUp      key.Binding
	VolDown    key.Binding
	Stop       key.Binding
	Theme      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PlayPause: key.NewBinding(
			key.WithKeys("space", " "),
			key.WithHelp("space", "play/pause"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/play"),
		),
		PlayFolder: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "play folder"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "up a level"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev track"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next track"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("pgup", "+"),
			key.WithHelp("pgup/+", "volume up"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("pgdown", "-"),
			key.WithHelp("pgdn/-", "volume down"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Enter, k.PlayFolder, k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.PlayFolder},
		{k.PlayPause, k.Stop, k.Prev, k.Next},
		{k.VolUp, k.VolDown, k.Theme, k.Quit},
	}
}
