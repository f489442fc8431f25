// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders bot answers with glamour. The renderer is rebuilt
// when the wrap width changes. A nil or disabled Markdown returns text
// unchanged.
type Markdown struct {
	enabled bool
	style   string
	width   int
	r       *glamour.TermRenderer
}

// NewMarkdown creates a renderer. style is a glamour standard style
// ("dark", "light", "notty").
func NewMarkdown(enabled bool, style string) *Markdown {
	return &Markdown{enabled: enabled, style: style}
}

// MarkdownStyle picks the glamour style for a theme.
func MarkdownStyle(dark, color bool) string {
	switch {
	case !color:
		return "notty"
	case dark:
		return "dark"
	default:
		return "light"
	}
}

// Render formats text for width cells. Rendering errors fall back to
// the raw text.
func (m *Markdown) Render(text string, width int) string {
	if m == nil || !m.enabled || strings.TrimSpace(text) == "" {
		return text
	}
	if width < 20 {
		width = 20
	}
	if m.r == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.enabled = false
			return text
		}
		m.r, m.width = r, width
	}
	out, err := m.r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
