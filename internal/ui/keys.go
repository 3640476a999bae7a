package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit     key.Binding
	Save     key.Binding
	Undo     key.Binding
	Redo     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	ZoomOff  key.Binding
	PrevSec  key.Binding
	NextSec  key.Binding

	// Field editing
	NextField key.Binding
	PrevField key.Binding
	Commit    key.Binding
	Cancel    key.Binding

	// Token entry / sections
	Confirm   key.Binding
	ClearTok  key.Binding
	Backspace key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save JSON"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "Undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "Redo"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("ctrl+p", "pgup"),
			key.WithHelp("ctrl+p", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("ctrl+n", "pgdown"),
			key.WithHelp("ctrl+n", "Next page"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Zoom out"),
		),
		ZoomOff: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reset zoom"),
		),
		PrevSec: key.NewBinding(
			key.WithKeys("ctrl+up"),
			key.WithHelp("ctrl+up", "Previous section"),
		),
		NextSec: key.NewBinding(
			key.WithKeys("ctrl+down"),
			key.WithHelp("ctrl+down", "Next section"),
		),

		// Field editing
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Commit component"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "Cancel draft"),
		),

		// Token entry / sections
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Submit token / new section"),
		),
		ClearTok: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear token"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "Erase token character"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Undo, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.NextField, k.PrevField, k.Cancel},
		{k.PrevPage, k.NextPage, k.ZoomIn, k.ZoomOut, k.ZoomOff},
		{k.PrevSec, k.NextSec, k.Undo, k.Redo},
		{k.Save, k.Quit},
	}
}
