package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Back       key.Binding
	Home       key.Binding
	Challenges key.Binding
	Badges     key.Binding
	Score      key.Binding
	Refresh    key.Binding
	Update     key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Home:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
	Challenges: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "challenges")),
	Badges:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "badges")),
	Score:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "score")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Update:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "score profile")),
}

// statusBindings are the shortcuts listed in the status bar
func (k keyMap) statusBindings() []key.Binding {
	return []key.Binding{k.Home, k.Challenges, k.Badges, k.Score, k.Update, k.Refresh, k.Help, k.Quit}
}
