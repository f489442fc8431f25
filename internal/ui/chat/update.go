// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update folds messages into the screen state.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if len(m.pending) == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd

	case components.ToastTickMsg:
		cmd := m.toasts.Tick(msg.Time)
		return m, cmd

	// Async replies. A different generation belongs to a replaced view.
	case components.FAQsLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			slog.Warn("failed to load FAQs", "error", msg.Err)
		}
		m.faqs.SetFAQs(msg.FAQs)
		return m, nil

	case components.FormsLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		if msg.Err != nil {
			slog.Warn("failed to load forms", "error", msg.Err)
		}
		var cmd tea.Cmd
		m.docs, cmd = m.docs.Update(msg)
		return m, cmd

	case sendResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.finishSend(msg)
		return m, nil

	case historyLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			slog.Warn("failed to load history", "error", msg.err)
			return m.notify(components.ToastError, api.Detail(msg.err, "Failed to load chat history"))
		}
		m.threads.Load(msg.history)
		m.syncSidebar()
		m.refreshViewport()
		return m, nil

	case accountLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			slog.Warn("failed to load profile", "error", msg.err)
			return m, nil
		}
		m.account = msg.profile
		m.sidebar.SetAccount(true, msg.profile.Name)
		return m, nil

	case threadDeletedMsg:
		if msg.gen != m.gen || msg.err == nil {
			return m, nil
		}
		slog.Warn("failed to delete thread on server", "thread", msg.id, "error", msg.err)
		return m.notify(components.ToastError, api.Detail(msg.err, "Failed to delete chat on server"))

	case historyClearedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			return m.notify(components.ToastError, api.Detail(msg.err, "Failed to delete chat history"))
		}
		m.threads.Clear()
		m.syncSidebar()
		m.refreshViewport()
		return m.notify(components.ToastSuccess, "Chat history deleted")

	case exportedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			return m.notify(components.ToastError, "Export failed: "+msg.err.Error())
		}
		return m.notify(components.ToastSuccess, "Saved "+msg.path)

	// Overlay routing
	case components.CloseOverlayMsg:
		return m.closeOverlay()

	case components.SwitchOverlayMsg:
		return m.openOverlay(msg.To, msg.Notice)

	case components.ProfileUpdatedMsg:
		p := msg.Profile
		m.account = &p
		m.sidebar.SetAccount(true, p.Name)
		m.profile, _ = m.profile.Update(msg)
		m.overlay = components.OverlayProfile
		return m.notify(components.ToastSuccess, "Profile updated")

	case components.SignedInMsg, components.SignedOutMsg:
		// Home swaps the whole screen; just drop the overlay.
		m.overlay = components.OverlayNone
		return m, nil
	}

	return m.forward(msg)
}

// forward passes messages private to a child (overlay replies, cursor
// blinks, form open results) to the children that may own them.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.overlay != components.OverlayNone {
		var cmd tea.Cmd
		m, cmd = m.updateOverlay(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.docs, cmd = m.docs.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.overlay != components.OverlayNone {
		return m.updateOverlay(msg)
	}
	if m.sidebar.Focused() {
		next, cmd, ok := m.handleThreadKey(msg)
		if ok {
			return next, cmd
		}
		m = next
	}

	switch {
	case key.Matches(msg, m.keys.NewChat):
		return m.newChat()
	case key.Matches(msg, m.keys.NextSection):
		return m.setSection(m.section + 1)
	case key.Matches(msg, m.keys.PrevSection):
		return m.setSection(m.section - 1)
	case key.Matches(msg, m.keys.GoChat):
		return m.setSection(components.SectionChat)
	case key.Matches(msg, m.keys.GoFAQ):
		return m.setSection(components.SectionFAQ)
	case key.Matches(msg, m.keys.GoDocs):
		return m.setSection(components.SectionDocs)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Export):
		return m.exportActive()
	case key.Matches(msg, m.keys.SignIn):
		return m.openOverlay(components.OverlaySignIn, "")
	case key.Matches(msg, m.keys.SignUp):
		return m.openOverlay(components.OverlaySignUp, "")
	case key.Matches(msg, m.keys.Profile):
		return m.openOverlay(components.OverlayProfile, "")
	case key.Matches(msg, m.keys.Logout):
		return m.openOverlay(components.OverlayLogout, "")
	case key.Matches(msg, m.keys.Threads):
		m.sidebar.SetFocused(true)
		m.input.Blur()
		return m, nil
	}

	if m.sidebar.Focused() {
		return m, nil
	}

	var cmd tea.Cmd
	switch m.section {
	case components.SectionChat:
		switch {
		case key.Matches(msg, m.keys.Send):
			return m.send()
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
		m.input, cmd = m.input.Update(msg)
	case components.SectionFAQ:
		m.faqs, cmd = m.faqs.Update(msg)
	case components.SectionDocs:
		m.docs, cmd = m.docs.Update(msg)
	}
	return m, cmd
}

// handleThreadKey serves the focused thread list. ok is false for keys
// the list does not own.
func (m Model) handleThreadKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if !key.Matches(msg, m.keys.DeleteAll) {
		m.confirmDelAll = false
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.sidebar.SetFocused(false)
		next, cmd := m.focusInput()
		return next, cmd, true
	case key.Matches(msg, m.keys.Up):
		m.sidebar.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.sidebar.Move(1)
	case key.Matches(msg, m.keys.Open):
		row, ok := m.sidebar.Cursor()
		if !ok {
			return m, nil, true
		}
		if err := m.threads.SelectThread(row.ID); err != nil {
			return m, nil, true
		}
		m.section = components.SectionChat
		m.sidebar.SetFocused(false)
		m.syncSidebar()
		m.refreshViewport()
		next, cmd := m.focusInput()
		return next, cmd, true
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.sidebar.Cursor()
		if !ok {
			return m, nil, true
		}
		next, cmd := m.deleteThread(row.ID)
		return next, cmd, true
	case key.Matches(msg, m.keys.DeleteAll):
		if !m.confirmDelAll {
			m.confirmDelAll = true
			next, cmd := m.notify(components.ToastInfo, "Press D again to delete all chat history")
			return next, cmd, true
		}
		m.confirmDelAll = false
		return m, ClearHistoryCmd(m.backend, m.gen), true
	default:
		return m, nil, false
	}
	return m, nil, true
}

// =============================================================================
// ACTIONS
// =============================================================================

// send reserves the exchange and posts it. The input clears at once.
func (m Model) send() (Model, tea.Cmd) {
	p, err := m.threads.Begin(m.input.Value())
	if err != nil {
		return m, nil
	}
	m.input.Reset()
	m.pending = append(m.pending, p)
	m.syncSidebar()
	m.refreshViewport()

	cmds := []tea.Cmd{SendCmd(m.backend, m.gen, p)}
	if len(m.pending) == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// finishSend settles a reply. Replies for exchanges dropped by a guest
// New Chat are ignored.
func (m *Model) finishSend(msg sendResultMsg) {
	idx := -1
	for i, p := range m.pending {
		if p.FirstID == msg.pending.FirstID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m.pending = append(m.pending[:idx:idx], m.pending[idx+1:]...)
	m.threads.Complete(msg.pending, msg.res, msg.err)
	m.syncSidebar()
	m.refreshViewport()
}

// newChat starts an empty thread. A guest has one session only, so it
// is replaced and its in-flight replies are forgotten.
func (m Model) newChat() (Model, tea.Cmd) {
	if m.mode == ModeGuest {
		m.threads.Clear()
		m.pending = nil
	}
	m.threads.NewChat()
	m.section = components.SectionChat
	m.sidebar.SetFocused(false)
	m.input.Reset()
	m.syncSidebar()
	m.refreshViewport()
	return m.focusInput()
}

// deleteThread removes a thread locally and tells the backend when the
// id came from the server.
func (m Model) deleteThread(id string) (Model, tea.Cmd) {
	remote, err := m.threads.DeleteThread(id)
	if err != nil {
		return m, nil
	}
	m.syncSidebar()
	m.refreshViewport()
	if remote && m.mode == ModeLoggedIn {
		return m, DeleteThreadCmd(m.backend, m.gen, id)
	}
	return m, nil
}

// setSection switches the main panel. Documents load the first time the
// panel is shown.
func (m Model) setSection(sec components.Section) (Model, tea.Cmd) {
	n := components.Section(len(components.Sections))
	sec = ((sec % n) + n) % n
	m.section = sec
	m.sidebar.SetFocused(false)
	m.syncSidebar()

	var cmds []tea.Cmd
	if sec == components.SectionChat {
		cmds = append(cmds, m.input.Focus())
	} else {
		m.input.Blur()
	}
	if sec == components.SectionDocs && !m.docsLoaded {
		m.docsLoaded = true
		cmds = append(cmds, m.docs.Load(m.gen))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) exportActive() (Model, tea.Cmd) {
	if m.export == nil {
		return m, nil
	}
	t, ok := m.threads.Active()
	if !ok || len(t.Messages) == 0 {
		return m.notify(components.ToastInfo, "Nothing to export yet")
	}
	return m, ExportCmd(m.export, m.gen, t)
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) openOverlay(kind components.OverlayKind, notice string) (Model, tea.Cmd) {
	loggedIn := m.mode == ModeLoggedIn
	var cmd tea.Cmd
	switch kind {
	case components.OverlayNone:
		return m.closeOverlay()
	case components.OverlaySignIn:
		if loggedIn {
			return m, nil
		}
		cmd = m.signIn.Open(notice)
	case components.OverlaySignUp:
		if loggedIn {
			return m, nil
		}
		cmd = m.signUp.Open()
	case components.OverlayProfile:
		if !loggedIn {
			return m, nil
		}
		cmd = m.profile.Open()
	case components.OverlayEditProfile:
		if !loggedIn {
			return m, nil
		}
		name := ""
		if p := m.profile.Current(); p != nil {
			name = p.Name
		} else if m.account != nil {
			name = m.account.Name
		}
		cmd = m.editProfile.Open(name)
	case components.OverlayLogout:
		if !loggedIn {
			return m, nil
		}
		m.logout.Open()
	}
	m.overlay = kind
	m.input.Blur()
	m.sidebar.SetFocused(false)
	return m, cmd
}

func (m Model) closeOverlay() (Model, tea.Cmd) {
	m.overlay = components.OverlayNone
	if m.section == components.SectionChat {
		return m.focusInput()
	}
	return m, nil
}

func (m Model) updateOverlay(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.overlay {
	case components.OverlaySignIn:
		m.signIn, cmd = m.signIn.Update(msg)
	case components.OverlaySignUp:
		m.signUp, cmd = m.signUp.Update(msg)
	case components.OverlayProfile:
		m.profile, cmd = m.profile.Update(msg)
	case components.OverlayEditProfile:
		m.editProfile, cmd = m.editProfile.Update(msg)
	case components.OverlayLogout:
		m.logout, cmd = m.logout.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// HELPERS
// =============================================================================

// notify shows a toast.
func (m Model) notify(kind components.ToastKind, text string) (Model, tea.Cmd) {
	cmd := m.toasts.Add(kind, text)
	return m, cmd
}

func (m Model) focusInput() (Model, tea.Cmd) {
	cmd := m.input.Focus()
	return m, cmd
}
