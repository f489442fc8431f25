// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// FAQ ACCORDION
// =============================================================================

// FAQsLoadedMsg carries the result of LoadFAQs. Gen is the generation of
// the view that asked.
type FAQsLoadedMsg struct {
	Gen  int
	FAQs []api.FAQ
	Err  error
}

// LoadFAQs fetches all FAQs.
func LoadFAQs(backend ContentBackend, gen int) tea.Cmd {
	return func() tea.Msg {
		faqs, err := backend.FAQs(context.Background(), nil)
		return FAQsLoadedMsg{Gen: gen, FAQs: faqs, Err: err}
	}
}

// FAQAccordion lists questions with at most one answer expanded.
type FAQAccordion struct {
	theme *styles.Theme

	items    []api.FAQ
	answers  []string // answer HTML rendered to text, by index
	cursor   int
	expanded int // index of the open item, -1 for none

	width  int
	height int
}

// NewFAQAccordion creates an empty accordion.
func NewFAQAccordion(theme *styles.Theme) FAQAccordion {
	return FAQAccordion{theme: theme, expanded: -1}
}

// SetFAQs replaces the items and collapses everything.
func (m *FAQAccordion) SetFAQs(faqs []api.FAQ) {
	m.items = faqs
	m.answers = make([]string, len(faqs))
	for i, f := range faqs {
		m.answers[i] = util.HTMLToText(f.Answer)
	}
	m.cursor = 0
	m.expanded = -1
}

// SetSize sets the panel size in cells.
func (m *FAQAccordion) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Len returns the number of items.
func (m FAQAccordion) Len() int { return len(m.items) }

// Expanded returns the id of the open item and whether one is open.
func (m FAQAccordion) Expanded() (api.ID, bool) {
	if m.expanded < 0 || m.expanded >= len(m.items) {
		return "", false
	}
	return m.items[m.expanded].ID, true
}

// Toggle opens the item at index i, or closes it when it is open.
func (m *FAQAccordion) Toggle(i int) {
	if i < 0 || i >= len(m.items) {
		return
	}
	m.cursor = i
	if m.expanded == i {
		m.expanded = -1
	} else {
		m.expanded = i
	}
}

// Update handles navigation keys.
func (m FAQAccordion) Update(msg tea.Msg) (FAQAccordion, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.items) == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.items) - 1
	case "enter", " ":
		m.Toggle(m.cursor)
	}
	return m, nil
}

// View renders the accordion.
func (m FAQAccordion) View() string {
	title := m.theme.PanelTitle.Render("Frequently Asked Questions")
	if len(m.items) == 0 {
		return title + "\n" + m.theme.Muted.Render("No FAQs available")
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	cursorLine, cursorEnd := 0, 0
	for i, f := range m.items {
		sign := "+"
		style := m.theme.FAQQuestion
		if i == m.expanded {
			sign = "−"
			style = m.theme.FAQQuestionOpen
		}
		pointer := "  "
		if i == m.cursor {
			pointer = "> "
			cursorLine = len(lines)
		}
		q := lipgloss.NewStyle().Width(max(10, width-4)).Render(f.Question)
		qLines := strings.Split(q, "\n")
		for j, l := range qLines {
			prefix := "  "
			if j == 0 {
				prefix = pointer
			}
			suffix := ""
			if j == 0 {
				suffix = " " + sign
			}
			lines = append(lines, prefix+style.Render(l)+suffix)
		}
		if i == m.expanded {
			a := m.theme.FAQAnswer.Width(max(10, width-2)).Render(m.answers[i])
			lines = append(lines, strings.Split(a, "\n")...)
		}
		if i == m.cursor {
			cursorEnd = len(lines) - 1
		}
		lines = append(lines, "")
	}

	body := m.window(lines, cursorLine, cursorEnd)
	return title + "\n" + strings.Join(body, "\n")
}

// window returns the lines visible in the panel. The block of the item
// under the cursor (first to last line) is kept in view, its first line
// winning when the block is taller than the panel.
func (m FAQAccordion) window(lines []string, first, last int) []string {
	visible := m.height - 2 // title and its margin
	if m.height <= 0 || len(lines) <= visible {
		return lines
	}
	if visible < 1 {
		visible = 1
	}
	start := max(0, last-visible+1)
	if start > first {
		start = first
	}
	if start+visible > len(lines) {
		start = len(lines) - visible
	}
	return lines[start : start+visible]
}
