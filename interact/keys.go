package interact

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Forward key.Binding
	Back    key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Retrace key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Back, k.Left, k.Right},
		{k.Up, k.Down, k.Retrace},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Forward: key.NewBinding(
		key.WithKeys("up", "w"),
		key.WithHelp("↑/w", "+y"),
	),
	Back: key.NewBinding(
		key.WithKeys("down", "s"),
		key.WithHelp("↓/s", "-y"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "a"),
		key.WithHelp("←/a", "-x"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "d"),
		key.WithHelp("→/d", "+x"),
	),
	Up: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "+z"),
	),
	Down: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "-z"),
	),
	Retrace: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retrace"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
