package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	UpDown   key.Binding
	Select   key.Binding
	Stow     key.Binding
	Quit     key.Binding
	FillAll  key.Binding
	SellNow  key.Binding
	Waypoint key.Binding
	Filter   key.Binding
	Dismiss  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		UpDown:   key.NewBinding(key.WithKeys("up", "down", "j", "k"), key.WithHelp("j/k", "navigate")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Stow:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stow tablet")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		FillAll:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fill all")),
		SellNow:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell")),
		Waypoint: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "waypoint")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter crops")),
		Dismiss:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.UpDown, k.Select, k.Stow, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.NextTab, k.PrevTab, k.UpDown, k.Select, k.Stow, k.Quit}}
}
