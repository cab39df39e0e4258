package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextTab   key.Binding
	PrevTab   key.Binding
	Start     key.Binding
	Step      key.Binding
	StepMode  key.Binding
	Faster    key.Binding
	Slower    key.Binding
	Randomize key.Binding
	Reset     key.Binding
	Grow      key.Binding
	Shrink    key.Binding
	Values    key.Binding
	Target    key.Binding
	View      key.Binding
	Theme     key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	NextTab: key.NewBinding(
		key.WithKeys("tab", "right", "l"),
		key.WithHelp("tab/→", "next algorithm"),
	),
	PrevTab: key.NewBinding(
		key.WithKeys("shift+tab", "left", "h"),
		key.WithHelp("shift+tab/←", "previous algorithm"),
	),
	Start: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter/s", "start"),
	),
	Step: key.NewBinding(
		key.WithKeys(" ", "n"),
		key.WithHelp("space/n", "next step"),
	),
	StepMode: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "toggle step mode"),
	),
	Faster: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster"),
	),
	Slower: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "slower"),
	),
	Randomize: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "random array"),
	),
	Reset: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reset"),
	),
	Grow: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "larger"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "smaller"),
	),
	Values: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit values"),
	),
	Target: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "set target"),
	),
	View: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "bars/badges/line"),
	),
	Theme: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "theme"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save trace"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Step, k.StepMode, k.Faster, k.Slower, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Step, k.StepMode, k.Faster, k.Slower},
		{k.Randomize, k.Reset, k.Grow, k.Shrink, k.Values, k.Target},
		{k.NextTab, k.PrevTab, k.View, k.Theme, k.Save, k.Help, k.Quit},
	}
}
