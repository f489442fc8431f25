// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// Documents panel strings.
const (
	DocumentsTitle   = "แบบฟอร์ม คำร้องต่างๆ / Request Forms"
	DocumentsLoading = "กำลังโหลดรายการแบบฟอร์ม..."
	DocumentsError   = "ไม่สามารถโหลดรายการแบบฟอร์มได้"
	DocumentsEmpty   = "ไม่พบรายการแบบฟอร์ม"
	DocumentsOpen    = "ดาวน์โหลด"
)

// =============================================================================
// DOCUMENTS LIST
// =============================================================================

// FormsLoadedMsg carries the result of a forms fetch.
type FormsLoadedMsg struct {
	Gen   int
	Forms []api.Form
	Err   error
}

// formOpenedMsg reports the outcome of opening a form in the browser.
type formOpenedMsg struct {
	url string
	err error
}

// Documents lists downloadable forms. It loads when Load is called.
type Documents struct {
	theme   *styles.Theme
	backend ContentBackend
	open    func(string) error

	items   []api.Form
	loading bool
	err     string
	status  string
	cursor  int

	width  int
	height int
}

// NewDocuments creates the panel. Forms open through OpenURL.
func NewDocuments(theme *styles.Theme, backend ContentBackend) Documents {
	return Documents{theme: theme, backend: backend, open: OpenURL}
}

// WithOpener replaces the browser launcher.
func (m Documents) WithOpener(open func(string) error) Documents {
	m.open = open
	return m
}

// Load starts fetching the forms list.
func (m *Documents) Load(gen int) tea.Cmd {
	m.loading = true
	m.err = ""
	backend := m.backend
	return func() tea.Msg {
		forms, err := backend.Forms(context.Background())
		return FormsLoadedMsg{Gen: gen, Forms: forms, Err: err}
	}
}

// SetSize sets the panel size in cells.
func (m *Documents) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Items returns the loaded forms.
func (m Documents) Items() []api.Form { return m.items }

// Selected returns the form under the cursor.
func (m Documents) Selected() (api.Form, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return api.Form{}, false
	}
	return m.items[m.cursor], true
}

// Update handles the fetch reply and keys. Callers check the generation
// of FormsLoadedMsg before passing it on.
func (m Documents) Update(msg tea.Msg) (Documents, tea.Cmd) {
	switch msg := msg.(type) {
	case FormsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = DocumentsError
			m.items = nil
			return m, nil
		}
		m.items = msg.Forms
		m.cursor = 0

	case formOpenedMsg:
		if msg.err != nil {
			m.status = styles.RenderError(msg.err.Error())
		} else {
			m.status = m.theme.Muted.Render("Opened " + msg.url)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "o":
			if f, ok := m.Selected(); ok {
				open := m.open
				return m, func() tea.Msg {
					return formOpenedMsg{url: f.URL, err: open(f.URL)}
				}
			}
		}
	}
	return m, nil
}

// View renders the panel.
func (m Documents) View() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render(DocumentsTitle))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Muted.Render(DocumentsLoading))
		return b.String()
	case m.err != "":
		b.WriteString(m.theme.Error.Render(m.err))
		return b.String()
	case len(m.items) == 0:
		b.WriteString(m.theme.Muted.Render(DocumentsEmpty))
		return b.String()
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	codeW := 14
	linkW := util.TextWidth(DocumentsOpen) + 2
	titleW := max(10, width-codeW-linkW-4)

	header := util.PadWidth("แบบฟอร์ม", codeW) + "  " +
		util.PadWidth("ประเภทคำร้อง", titleW) + "  " + DocumentsOpen
	b.WriteString(m.theme.ModalLabel.Render(header))
	b.WriteString("\n")

	for i, f := range m.items {
		style := m.theme.ListItem
		pointer := "  "
		if i == m.cursor {
			style = m.theme.ListItemActive
			pointer = "> "
		}
		titleLines := strings.Split(f.Title, "\n")
		for j, line := range titleLines {
			code, link := "", ""
			if j == 0 {
				code = m.theme.DocCode.Render(util.PadWidth(f.Code, codeW-2))
				link = m.theme.Hyperlink(DocumentsOpen, f.URL)
			} else {
				code = strings.Repeat(" ", codeW-2)
			}
			p := "  "
			if j == 0 {
				p = pointer
			}
			b.WriteString(p + code + "  " + style.Render(util.PadWidth(line, titleW)) + "  " + link + "\n")
		}
	}
	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	return strings.TrimRight(b.String(), "\n")
}
