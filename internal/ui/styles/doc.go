// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the chatcpe TUI.

Colors follow the CPE web client: navy #4960ac, periwinkle #7587b8,
indigo #6277ac, the mist sidebar #e4eef8 and the orange wordmark
#faa538. All colors are Lip Gloss AdaptiveColor values so light and dark
terminals both read well.

# Key Types

  - Theme: every lipgloss.Style the views use, built by NewTheme
  - Mode: auto, dark or light, from the [ui] theme config key

# Usage

	theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	title := theme.PanelTitle.Render("Frequently Asked Questions")
*/
package styles
