package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	SwitchPane  key.Binding
	Regenerate  key.Binding
	Expand      key.Binding
	Shorten     key.Binding
	FactCheck   key.Binding
	ToggleFacts key.Binding
	Download    key.Binding
	Generate    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:      key.NewBinding(key.WithKeys("alt+up", "K"), key.WithHelp("alt+↑/K", "move up")),
		MoveDown:    key.NewBinding(key.WithKeys("alt+down", "J"), key.WithHelp("alt+↓/J", "move down")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Regenerate:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "regenerate")),
		Expand:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand")),
		Shorten:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shorten")),
		FactCheck:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fact-check")),
		ToggleFacts: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "show/hide facts")),
		Download:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download lesson")),
		Generate:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate lessons"), key.WithDisabled()),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.MoveUp, k.MoveDown, k.Regenerate, k.Expand, k.Shorten, k.FactCheck, k.Generate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane},
		{k.MoveUp, k.MoveDown},
		{k.Regenerate, k.Expand, k.Shorten},
		{k.FactCheck, k.ToggleFacts, k.Download, k.Generate},
		{k.Help, k.Quit},
	}
}

// setPlanning switches between plan mode, where only reordering and
// generation are available, and normal editing.
func (k *keyMap) setPlanning(on bool) {
	for _, b := range []*key.Binding{&k.Regenerate, &k.Expand, &k.Shorten, &k.FactCheck, &k.ToggleFacts, &k.Download} {
		b.SetEnabled(!on)
	}
	k.Generate.SetEnabled(on)
}
