// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Navy)
	SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary)
	LabelStyle   = lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(10)
	ValueStyle   = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	MutedStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(styles.Emerald)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(styles.Rose)
	AccentStyle  = lipgloss.NewStyle().Foreground(styles.Orange)

	// REPL
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.Navy)
	youStyle    = lipgloss.NewStyle().Bold(true).Foreground(styles.Orange)
	botStyle    = lipgloss.NewStyle().Bold(true).Foreground(styles.Indigo)
)

// SetColor switches lipgloss output between the detected profile and
// plain text.
func SetColor(enabled bool) {
	if !enabled {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(ColorProfile())
}

func formatKeyValue(key, value string) string {
	return LabelStyle.Render(key+":") + " " + ValueStyle.Render(value)
}
