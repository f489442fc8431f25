// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Ellipsis is appended by the truncation helpers.
const Ellipsis = "..."

// TruncateRunes keeps the first maxRunes characters of s and appends "..."
// when anything was cut. The ellipsis does not count against maxRunes, so
// a 40 character text truncated to 32 yields 35 characters.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + Ellipsis
}

// FitWidth truncates s so that it occupies at most width terminal cells,
// ellipsis included. Thai combining marks take no cells and wide CJK
// characters take two.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= len(Ellipsis) {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// PadWidth right-pads s with spaces to exactly width cells, truncating
// first if needed.
func PadWidth(s string, width int) string {
	s = FitWidth(s, width)
	return runewidth.FillRight(s, width)
}

// NormalizeInput trims surrounding whitespace and converts s to NFC so
// that text typed with decomposed marks compares and truncates the same
// way as precomposed text.
func NormalizeInput(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// TextWidth returns the number of terminal cells s occupies.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}
