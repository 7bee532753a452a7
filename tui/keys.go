package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left       key.Binding
	Right      key.Binding
	Toggle     key.Binding
	ToneUp     key.Binding
	ToneDown   key.Binding
	Resolution key.Binding
	TempoUp    key.Binding
	TempoDown  key.Binding
	Play       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev step")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next step")),
		Toggle:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle step")),
		ToneUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "tone up")),
		ToneDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "tone down")),
		Resolution: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolution")),
		TempoUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tempo +5")),
		TempoDown:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "tempo -5")),
		Play:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/stop")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Play, k.TempoUp, k.TempoDown, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Toggle},
		{k.ToneUp, k.ToneDown, k.Resolution},
		{k.TempoUp, k.TempoDown, k.Play},
		{k.Help, k.Quit},
	}
}

func is(msg tea.KeyMsg, k ...key.Binding) bool {
	return key.Matches(msg, k...)
}
