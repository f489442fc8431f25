// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// PlaceOverlay centers box in a width by height area.
func PlaceOverlay(width, height int, box string) string {
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// modalFrame renders the shared overlay chrome: title, body, an optional
// error or notice line and a key hint footer.
func modalFrame(theme *styles.Theme, width int, title, body, errText, notice, hint string) string {
	var parts []string
	parts = append(parts, theme.ModalTitle.Render(title))
	if notice != "" {
		parts = append(parts, theme.ModalNotice.Render(notice), "")
	}
	parts = append(parts, body)
	if errText != "" {
		parts = append(parts, "", theme.ModalError.Render(errText))
	}
	if hint != "" {
		parts = append(parts, "", theme.Muted.Render(hint))
	}

	box := theme.ModalBox
	if width > 0 {
		// Width includes the border.
		box = box.Width(max(20, width-2))
	}
	return box.Render(strings.Join(parts, "\n"))
}

// inputWidth is the text width left inside a modal of the given width.
func inputWidth(modalWidth int) int {
	// border 2, modal padding 4, input border 2, input padding 2
	return modalWidth - 10
}
