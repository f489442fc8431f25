// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
)

// Greeting lines shown above an empty chat.
const (
	GreetingTitle    = "Hello"
	GreetingSubtitle = "Welcome to Chat CPE"
	ThinkingText     = "Thinking..."
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.overlay != components.OverlayNone {
		return components.PlaceOverlay(m.width, m.height, m.overlayView())
	}

	if m.layout.SidebarHidden {
		// Without a sidebar the thread list takes the screen while focused.
		if m.sidebar.Focused() {
			sb := m.sidebar
			sb.SetSize(m.width, m.height)
			return sb.View()
		}
		return m.mainView()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), m.mainView())
}

func (m Model) overlayView() string {
	switch m.overlay {
	case components.OverlaySignIn:
		return m.signIn.View()
	case components.OverlaySignUp:
		return m.signUp.View()
	case components.OverlayProfile:
		return m.profile.View()
	case components.OverlayEditProfile:
		return m.editProfile.View()
	case components.OverlayLogout:
		return m.logout.View()
	}
	return ""
}

// mainView renders the panel for the current section plus the footer.
func (m Model) mainView() string {
	var body string
	switch m.section {
	case components.SectionFAQ:
		body = m.faqs.View()
	case components.SectionDocs:
		body = m.docs.View()
	default:
		body = m.chatView()
	}

	footer := m.footerView()
	bodyHeight := max(1, m.height-lipgloss.Height(footer))
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.NewStyle().
		PaddingLeft(m.layout.PaddingLeft).
		Width(m.layout.ContentWidth).
		MaxWidth(m.layout.ContentWidth).
		Render(body + "\n" + footer)
}

// chatView renders the transcript or greeting above the input box.
func (m Model) chatView() string {
	inputStyle := m.theme.InputBox
	if m.input.Focused() {
		inputStyle = m.theme.InputFocused
	}
	box := inputStyle.Width(max(10, min(m.layout.InputWidth, m.innerWidth())-2)).Render(m.input.View())

	top := m.viewport.View()
	if m.showGreeting() {
		top = lipgloss.Place(m.innerWidth(), m.viewport.Height, lipgloss.Center, lipgloss.Center, m.greetingView())
	}
	return top + "\n" + box
}

func (m Model) showGreeting() bool {
	t, ok := m.threads.Active()
	if ok && len(t.Messages) > 0 {
		return false
	}
	return len(m.pendingFor(t.Handle, ok)) == 0
}

func (m Model) greetingView() string {
	title := m.theme.Greeting.Render(GreetingTitle)
	if m.account != nil && m.account.Name != "" {
		title = m.theme.Greeting.Render(GreetingTitle+", ") + m.theme.GreetingAccent.Render(m.account.Name)
	}
	sub := m.theme.Muted.Render(GreetingSubtitle)
	return lipgloss.JoinVertical(lipgloss.Center, title, sub)
}

func (m Model) footerView() string {
	h := helpKeys{k: m.keys, threads: m.sidebar.Focused()}
	line := m.help.View(h)
	if toasts := m.toasts.View(m.innerWidth()); toasts != "" {
		return toasts + "\n" + line
	}
	return line
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// pendingFor returns the exchanges in flight for a thread. A nil-thread
// lookup (ok false) matches sends that will create a thread.
func (m Model) pendingFor(h thread.Handle, ok bool) []thread.Pending {
	var out []thread.Pending
	for _, p := range m.pending {
		if ok && p.Handle == h || !ok {
			out = append(out, p)
		}
	}
	return out
}

// refreshViewport re-renders the active thread into the viewport and
// scrolls to the newest message.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	t, ok := m.threads.Active()
	width := m.innerWidth()
	bubbleWidth := max(10, width*4/5)

	var blocks []string
	if ok {
		for _, msg := range t.Messages {
			blocks = append(blocks, m.renderMessage(msg, width, bubbleWidth))
		}
	}
	for _, p := range m.pendingFor(t.Handle, ok) {
		blocks = append(blocks,
			m.renderMessage(thread.Message{Role: thread.RoleUser, Text: p.Text, CreatedAt: p.At}, width, bubbleWidth),
			m.spinner.View()+" "+m.theme.Thinking.Render(ThinkingText),
		)
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderMessage(msg thread.Message, width, bubbleWidth int) string {
	var stamp string
	if !m.layout.Compact() && !msg.CreatedAt.IsZero() {
		stamp = m.theme.Timestamp.Render(msg.CreatedAt.Local().Format("15:04"))
	}

	if msg.IsUser() {
		bubble := m.theme.UserBubble.Render(wrap(msg.Text, bubbleWidth-2))
		if stamp != "" {
			bubble = lipgloss.JoinVertical(lipgloss.Right, bubble, stamp)
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}

	body := strings.TrimRight(m.md.Render(msg.Text, bubbleWidth-2), "\n")
	body = strings.TrimLeft(body, "\n")
	bubble := m.theme.BotBubble.Render(wrap(body, bubbleWidth-2))
	if stamp != "" {
		bubble = lipgloss.JoinVertical(lipgloss.Left, bubble, stamp)
	}
	return bubble
}

// wrap word-wraps text to at most width cells without padding short text.
func wrap(text string, width int) string {
	if lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
