package tui

import "github.com/charmbracelet/bubbles/key"

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	Green     key.Binding
	Orange    key.Binding
	Purple    key.Binding
	Left      key.Binding
	Right     key.Binding
	Click     key.Binding
	Deselect  key.Binding
	Play      key.Binding
	Clear     key.Binding
	TempoUp   key.Binding
	TempoDown key.Binding
	Mode      key.Binding
	PitchUp   key.Binding
	PitchDown key.Binding
	VolUp     key.Binding
	VolDown   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Green:     Key("green (4)", "1"),
	Orange:    Key("orange (2)", "2"),
	Purple:    Key("purple (1)", "3"),
	Left:      Key("left", "left", "h"),
	Right:     Key("right", "right", "l"),
	Click:     Key("place/remove", "enter", "x"),
	Deselect:  Key("deselect", "esc"),
	Play:      Key("play/stop", "p", " "),
	Clear:     Key("clear", "c"),
	TempoUp:   Key("tempo +", "+", "="),
	TempoDown: Key("tempo -", "-", "_"),
	Mode:      Key("drum/pitch", "m"),
	PitchUp:   Key("pitch up", "]"),
	PitchDown: Key("pitch down", "["),
	VolUp:     Key("volume +", ">"),
	VolDown:   Key("volume -", "<"),
	Help:      Key("help", "?"),
	Quit:      Key("quit", "q", "ctrl+c"),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Green, k.Orange, k.Purple, k.Click, k.Play, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Green, k.Orange, k.Purple, k.Deselect},
		{k.Left, k.Right, k.Click, k.Clear},
		{k.Play, k.TempoUp, k.TempoDown},
		{k.Mode, k.PitchUp, k.PitchDown, k.VolUp, k.VolDown},
		{k.Help, k.Quit},
	}
}
