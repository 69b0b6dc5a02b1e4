package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PunchIn  key.Binding
	PunchOut key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PunchIn: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "Punch in"),
		),
		PunchOut: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Punch out"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PunchIn, k.PunchOut, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
