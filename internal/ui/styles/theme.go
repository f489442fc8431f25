// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects light or dark colors.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode maps a config value onto a Mode, defaulting to ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar          lipgloss.Style
	Logo             lipgloss.Style
	NavItem          lipgloss.Style
	NavItemActive    lipgloss.Style
	NavButton        lipgloss.Style
	SectionLabel     lipgloss.Style
	ThreadItem       lipgloss.Style
	ThreadItemActive lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	Greeting       lipgloss.Style
	GreetingAccent lipgloss.Style
	UserBubble     lipgloss.Style
	BotBubble      lipgloss.Style
	Timestamp      lipgloss.Style
	InputBox       lipgloss.Style
	InputFocused   lipgloss.Style
	Thinking       lipgloss.Style

	// ==========================================================================
	// OVERLAYS
	// ==========================================================================

	ModalBox     lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalLabel   lipgloss.Style
	ModalError   lipgloss.Style
	ModalNotice  lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	ButtonDanger lipgloss.Style

	// ==========================================================================
	// FAQ & DOCUMENTS
	// ==========================================================================

	PanelTitle      lipgloss.Style
	FAQQuestion     lipgloss.Style
	FAQQuestionOpen lipgloss.Style
	FAQAnswer       lipgloss.Style
	ListItem        lipgloss.Style
	ListItemActive  lipgloss.Style
	DocCode         lipgloss.Style
	Link            lipgloss.Style

	// ==========================================================================
	// FOOTER
	// ==========================================================================

	StatusBar lipgloss.Style
	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
}

// NewTheme detects the terminal and builds the styles. ModeDark and
// ModeLight override background detection.
func NewTheme(mode Mode) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// DisableColor strips all color output, for dumb terminals and pipes.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func (t *Theme) initStyles() {
	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Background(Mist).
		Padding(1, 1)

	t.Logo = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy).
		Background(Mist).
		MarginBottom(1)

	t.NavItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(Mist).
		Padding(0, 1)

	t.NavItemActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Navy).
		Padding(0, 1)

	t.NavButton = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 1)

	t.SectionLabel = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Mist).
		MarginTop(1)

	t.ThreadItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Mist).
		Padding(0, 1)

	t.ThreadItemActive = lipgloss.NewStyle().
		Foreground(Navy).
		Background(Surface).
		Bold(true).
		Padding(0, 1)

	// Chat
	t.Greeting = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy)

	t.GreetingAccent = lipgloss.NewStyle().
		Bold(true).
		Foreground(Orange)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Periwinkle).
		Padding(0, 1)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceTint).
		Padding(0, 1)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputFocused = t.InputBox.
		BorderForeground(Indigo)

	t.Thinking = lipgloss.NewStyle().
		Foreground(Periwinkle).
		Italic(true)

	// Overlays
	t.ModalBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Navy).
		Background(Surface).
		Padding(1, 2)

	t.ModalTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy).
		MarginBottom(1)

	t.ModalLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ModalError = lipgloss.NewStyle().
		Foreground(Rose)

	t.ModalNotice = lipgloss.NewStyle().
		Foreground(Emerald)

	t.Button = lipgloss.NewStyle().
		Foreground(Indigo).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Indigo).
		Padding(0, 2)

	t.ButtonActive = t.Button.
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true)

	t.ButtonDanger = t.Button.
		Foreground(TextInverse).
		Background(Rose).
		BorderForeground(Rose).
		Bold(true)

	// FAQ & documents
	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy).
		MarginBottom(1)

	t.FAQQuestion = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.FAQQuestionOpen = lipgloss.NewStyle().
		Bold(true).
		Foreground(Navy)

	t.FAQAnswer = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(4)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ListItemActive = lipgloss.NewStyle().
		Foreground(Navy).
		Bold(true)

	t.DocCode = lipgloss.NewStyle().
		Foreground(Orange)

	t.Link = lipgloss.NewStyle().
		Foreground(Indigo).
		Underline(true)

	// Footer
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.HelpKey = lipgloss.NewStyle().
		Foreground(Navy).
		Bold(true)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Error = lipgloss.NewStyle().
		Foreground(Rose)
}

// Hyperlink renders text as a terminal hyperlink to url when the
// terminal has color; plain terminals get "text <url>".
func (t *Theme) Hyperlink(text, url string) string {
	if url == "" {
		return text
	}
	if t.ColorProfile == termenv.Ascii {
		return text + " <" + url + ">"
	}
	return termenv.Hyperlink(url, t.Link.Render(text))
}
