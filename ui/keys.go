package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Play       key.Binding
	Stop       key.Binding
	Next       key.Binding
	Previous   key.Binding
	AutoPlay   key.Binding
	Voice      key.Binding
	Random     key.Binding
	RepeatUp   key.Binding
	RepeatDown key.Binding
	PauseUp    key.Binding
	PauseDown  key.Binding
	Range      key.Binding
	Find       key.Binding
	Fields     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Play:       key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "play")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next word")),
		Previous:   key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "previous word")),
		AutoPlay:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle auto-play")),
		Voice:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next voice")),
		Random:     key.NewBinding(key.WithKeys("V"), key.WithHelp("V", "randomize voices")),
		RepeatUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more repeats")),
		RepeatDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "fewer repeats")),
		PauseUp:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "longer pause")),
		PauseDown:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "shorter pause")),
		Range:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "select id range")),
		Find:       key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "find word")),
		Fields:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "toggle fields")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// helpView renders the key bindings in two columns.
func (k keyMap) helpView() string {
	col1 := []key.Binding{k.Play, k.Stop, k.Next, k.Previous, k.AutoPlay, k.Range, k.Find, k.Quit}
	col2 := []key.Binding{k.Voice, k.Random, k.RepeatUp, k.RepeatDown, k.PauseUp, k.PauseDown, k.Fields, k.Help}

	var b strings.Builder
	for i := range col1 {
		left := renderBinding(col1[i])
		right := ""
		if i < len(col2) {
			right = renderBinding(col2[i])
		}
		b.WriteString(left)
		if pad := 32 - len([]rune(stripHelp(col1[i]))); pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(right)
		b.WriteString("\n")
	}
	return b.String()
}

func renderBinding(kb key.Binding) string {
	h := kb.Help()
	return subtleStyle.Render(h.Key) + " " + fieldLabelStyle.Render(h.Desc)
}

func stripHelp(kb key.Binding) string {
	h := kb.Help()
	return h.Key + " " + h.Desc
}
