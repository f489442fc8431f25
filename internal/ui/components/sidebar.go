// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// Section is a navigation target.
type Section int

const (
	SectionChat Section = iota
	SectionFAQ
	SectionDocs
)

// Sections lists the navigation targets in display order.
var Sections = []Section{SectionChat, SectionFAQ, SectionDocs}

// String returns the navigation label.
func (s Section) String() string {
	switch s {
	case SectionChat:
		return "AI Chat"
	case SectionFAQ:
		return "Q & A"
	case SectionDocs:
		return "Document"
	default:
		return "?"
	}
}

// SidebarThread is one row of the thread list.
type SidebarThread struct {
	ID     string
	Title  string
	Active bool
}

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar renders navigation, the thread list and account actions.
type Sidebar struct {
	theme *styles.Theme

	section  Section
	loggedIn bool
	userName string
	threads  []SidebarThread
	cursor   int
	focused  bool

	width  int
	height int
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme}
}

// SetSize sets the sidebar size in cells.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetSection marks the current navigation target.
func (s *Sidebar) SetSection(sec Section) { s.section = sec }

// SetAccount switches between the guest and signed-in footers.
func (s *Sidebar) SetAccount(loggedIn bool, name string) {
	s.loggedIn = loggedIn
	s.userName = name
}

// SetThreads replaces the thread list and keeps the cursor in range.
func (s *Sidebar) SetThreads(threads []SidebarThread) {
	s.threads = threads
	if s.cursor >= len(threads) {
		s.cursor = max(0, len(threads)-1)
	}
}

// SetFocused toggles keyboard focus on the thread list. Focusing puts
// the cursor on the active thread.
func (s *Sidebar) SetFocused(f bool) {
	s.focused = f
	if f {
		for i, t := range s.threads {
			if t.Active {
				s.cursor = i
			}
		}
	}
}

// Focused reports whether the thread list has focus.
func (s Sidebar) Focused() bool { return s.focused }

// Move shifts the cursor by delta within the list.
func (s *Sidebar) Move(delta int) {
	if len(s.threads) == 0 {
		return
	}
	s.cursor = max(0, min(len(s.threads)-1, s.cursor+delta))
}

// Cursor returns the thread under the cursor.
func (s Sidebar) Cursor() (SidebarThread, bool) {
	if s.cursor < 0 || s.cursor >= len(s.threads) {
		return SidebarThread{}, false
	}
	return s.threads[s.cursor], true
}

// View renders the sidebar.
func (s Sidebar) View() string {
	width := s.width
	if width <= 0 {
		width = 30
	}
	inner := width - 2 // sidebar padding
	row := func(style lipgloss.Style, text string) string {
		// style padding takes two cells
		return style.Width(inner).Render(util.FitWidth(text, inner-2))
	}

	var lines []string
	logo := s.theme.Logo.Render("Chat ") + s.theme.GreetingAccent.Background(styles.Mist).Render("CPE")
	lines = append(lines, logo, "")

	for i, sec := range Sections {
		style := s.theme.NavItem
		if sec == s.section {
			style = s.theme.NavItemActive
		}
		lines = append(lines, row(style, string(rune('1'+i))+"  "+sec.String()))
	}
	lines = append(lines, "", row(s.theme.NavButton, "+ New Chat  ctrl+n"))

	if s.loggedIn {
		lines = append(lines, s.theme.SectionLabel.Render("History"))
		if len(s.threads) == 0 {
			lines = append(lines, row(s.theme.NavItem, "No conversations yet"))
		}
		for i, t := range s.threads {
			style := s.theme.ThreadItem
			if t.Active {
				style = s.theme.ThreadItemActive
			}
			prefix := "  "
			if s.focused && i == s.cursor {
				prefix = "> "
			}
			lines = append(lines, row(style, prefix+t.Title))
		}
	}

	var footer []string
	if s.loggedIn {
		name := s.userName
		if name == "" {
			name = "Profile"
		}
		footer = append(footer,
			row(s.theme.NavItem, name+"  ctrl+p"),
			row(s.theme.NavItem, "Logout  ctrl+o"))
		if s.focused {
			footer = append(footer, s.theme.SectionLabel.Render(util.FitWidth("enter open • d delete • D delete all", inner)))
		}
	} else {
		footer = append(footer,
			row(s.theme.NavButton, "Sign in  ctrl+l"),
			row(s.theme.NavItem, "Sign up  ctrl+r"))
	}

	body := strings.Join(lines, "\n")
	foot := strings.Join(footer, "\n")
	if s.height > 0 {
		// Keep the footer pinned to the bottom; the thread list is cut first.
		avail := s.height - 2 - lipgloss.Height(foot) - 1
		bodyLines := strings.Split(body, "\n")
		if avail > 0 && len(bodyLines) > avail {
			bodyLines = s.scroll(bodyLines, avail)
		}
		body = strings.Join(bodyLines, "\n")
		gap := s.height - 2 - len(bodyLines) - lipgloss.Height(foot)
		if gap > 0 {
			body += strings.Repeat("\n", gap)
		}
	}

	style := s.theme.Sidebar.Width(width)
	if s.height > 0 {
		style = style.Height(s.height)
	}
	return style.Render(body + "\n" + foot)
}

// scroll keeps the header rows and the cursor row visible when the
// thread list is too long.
func (s Sidebar) scroll(lines []string, avail int) []string {
	const header = 8 // logo, blank, three sections, blank, new chat, history label
	if avail <= header || len(lines) <= header {
		return lines[:min(len(lines), avail)]
	}
	threads := lines[header:]
	room := avail - header
	start := 0
	if s.cursor >= room {
		start = s.cursor - room + 1
	}
	end := min(len(threads), start+room)
	return append(append([]string{}, lines[:header]...), threads[start:end]...)
}
