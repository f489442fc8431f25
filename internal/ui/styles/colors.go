// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Navy - Primary brand color, headings, active navigation
var Navy = lipgloss.AdaptiveColor{Light: "#4960AC", Dark: "#8FA3E0"}

// Periwinkle - Secondary brand color, user bubbles, borders
var Periwinkle = lipgloss.AdaptiveColor{Light: "#7587B8", Dark: "#7587B8"}

// Indigo - Buttons and focused inputs
var Indigo = lipgloss.AdaptiveColor{Light: "#6277AC", Dark: "#A5B4E6"}

// Mist - Sidebar background
var Mist = lipgloss.AdaptiveColor{Light: "#E4EEF8", Dark: "#1F2740"}

// Orange - Highlights, the "Chat CPE" wordmark
var Orange = lipgloss.AdaptiveColor{Light: "#FAA538", Dark: "#FAA538"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors and destructive actions
var Rose = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// Emerald - Success notices
var Emerald = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}

// =============================================================================
// SURFACE & TEXT
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#141A2B"}

// SurfaceTint - Bot bubbles and FAQ answers
var SurfaceTint = lipgloss.AdaptiveColor{Light: "#F0F6FE", Dark: "#222B45"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#D6DEEB", Dark: "#39435F"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E2E8F5"}

// TextSecondary - Labels
var TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#AAB4CC"}

// TextMuted - Hints and timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7592"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet holds ASCII markers shown next to colored states so
// they still read without color.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Info    string
	Pending string
}

// StatusIndicators is the marker set in use.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Info:    "[i]",
	Pending: "[ ]",
}

// RenderSuccess renders a success notice.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error notice.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderInfo renders an informational notice.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(Navy).
		Render(StatusIndicators.Info + " " + message)
}
