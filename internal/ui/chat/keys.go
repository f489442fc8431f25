// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the chat screen.
type KeyMap struct {
	Send        key.Binding
	NewChat     key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	GoChat      key.Binding
	GoFAQ       key.Binding
	GoDocs      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding

	// Guest only
	SignIn key.Binding
	SignUp key.Binding

	// Signed in only
	Threads   key.Binding
	Profile   key.Binding
	Logout    key.Binding
	Open      key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev panel"),
		),
		GoChat: key.NewBinding(
			key.WithKeys("f1", "alt+1"),
			key.WithHelp("F1", "AI Chat"),
		),
		GoFAQ: key.NewBinding(
			key.WithKeys("f2", "alt+2"),
			key.WithHelp("F2", "Q & A"),
		),
		GoDocs: key.NewBinding(
			key.WithKeys("f3", "alt+3"),
			key.WithHelp("F3", "Document"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export chat"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "sign in"),
		),
		SignUp: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("C-r", "sign up"),
		),
		Threads: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "history"),
		),
		Profile: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "logout"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		DeleteAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete all"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// forMode enables the account bindings that exist in the given mode.
func (k KeyMap) forMode(loggedIn bool) KeyMap {
	k.SignIn.SetEnabled(!loggedIn)
	k.SignUp.SetEnabled(!loggedIn)
	for _, b := range []*key.Binding{&k.Threads, &k.Profile, &k.Logout, &k.Open, &k.Delete, &k.DeleteAll} {
		b.SetEnabled(loggedIn)
	}
	return k
}

// helpKeys adapts a KeyMap to help.KeyMap for one focus state.
type helpKeys struct {
	k       KeyMap
	threads bool // thread list focused
}

// ShortHelp returns the bindings for the footer line.
func (h helpKeys) ShortHelp() []key.Binding {
	if h.threads {
		return []key.Binding{h.k.Up, h.k.Down, h.k.Open, h.k.Delete, h.k.DeleteAll, h.k.Back}
	}
	return []key.Binding{h.k.Send, h.k.NewChat, h.k.NextSection, h.k.SignIn, h.k.Threads, h.k.Help, h.k.Quit}
}

// FullHelp returns the bindings grouped by column.
func (h helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Send, h.k.NewChat, h.k.Export, h.k.PageUp, h.k.PageDown},
		{h.k.NextSection, h.k.PrevSection, h.k.GoChat, h.k.GoFAQ, h.k.GoDocs},
		{h.k.SignIn, h.k.SignUp, h.k.Threads, h.k.Profile, h.k.Logout},
		{h.k.Help, h.k.Quit},
	}
}
