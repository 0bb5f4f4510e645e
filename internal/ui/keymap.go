package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for both views.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Open           key.Binding
	Prev           key.Binding
	Next           key.Binding
	Pager          key.Binding
	ToggleRead     key.Binding
	FilterUnread   key.Binding
	FilterAll      key.Binding
	FilterArchived key.Binding
	Sort           key.Binding
	Reload         key.Binding
	Back           key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Prev:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous")),
		Next:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		Pager: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),

		ToggleRead:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle read")),
		FilterUnread:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unread only")),
		FilterAll:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		FilterArchived: key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "archived")),

		Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Sort, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Back},
		{k.Prev, k.Next, k.Pager, k.ToggleRead},
		{k.FilterUnread, k.FilterAll, k.FilterArchived, k.Sort, k.Reload},
		{k.Help, k.Quit},
	}
}
