package tui

import "github.com/charmbracelet/bubbles/key"

type focusArea int

const (
	focusInput focusArea = iota
	focusResult
)

type keyMap struct {
	submit  key.Binding
	focus   key.Binding
	preview key.Binding
	code    key.Binding
	desktop key.Binding
	mobile  key.Binding
	copy    key.Binding
	open    key.Binding
	scroll  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "clone website"),
		),
		focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		code: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "code"),
		),
		desktop: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "desktop"),
		),
		mobile: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mobile"),
		),
		copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy code"),
		),
		open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "preview link"),
		),
		scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓/pgup/pgdn", "scroll"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// shortHelp lists the bindings usable in the current focus.
func (k keyMap) shortHelp(focus focusArea) []key.Binding {
	if focus == focusInput {
		return []key.Binding{k.submit, k.focus, k.quit}
	}
	return []key.Binding{k.focus, k.preview, k.code, k.desktop, k.mobile, k.copy, k.open, k.scroll, k.quit}
}
