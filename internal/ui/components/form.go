// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// =============================================================================
// FORM - labelled text inputs with focus cycling
// =============================================================================

// fieldSpec describes one input of a form.
type fieldSpec struct {
	Label       string
	Placeholder string
	Secret      bool
}

type formField struct {
	label string
	input textinput.Model
}

// form is the input block shared by the account overlays.
type form struct {
	fields []formField
	focus  int
}

func newForm(specs ...fieldSpec) form {
	f := form{}
	for _, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.Placeholder
		ti.CharLimit = 256
		ti.Width = 40
		ti.Prompt = ""
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
		ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Indigo)
		if s.Secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, formField{label: s.Label, input: ti})
	}
	return f
}

// reset clears every field and focuses the first one.
func (f *form) reset() tea.Cmd {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	return f.setFocus(0)
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.focus = (i + len(f.fields)) % len(f.fields)
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (f *form) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// onLast reports whether the last field has focus.
func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) setValue(i int, v string) {
	f.fields[i].input.SetValue(v)
}

func (f *form) setWidth(w int) {
	if w < 10 {
		w = 10
	}
	for i := range f.fields {
		f.fields[i].input.Width = w
	}
}

// update forwards msg to the focused field.
func (f *form) update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// handleNav moves focus for tab-like keys. It reports whether the key
// was consumed.
func (f *form) handleNav(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		return f.next(), true
	case "shift+tab", "up":
		return f.prev(), true
	}
	return nil, false
}

func (f *form) view(theme *styles.Theme) string {
	var b strings.Builder
	for i, fl := range f.fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(theme.ModalLabel.Render(fl.label))
		b.WriteString("\n")
		box := theme.InputBox
		if i == f.focus {
			box = theme.InputFocused
		}
		b.WriteString(box.Render(fl.input.View()))
	}
	return b.String()
}
