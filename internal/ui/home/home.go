// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package home is the root Bubble Tea model. It shows the guest or the
// signed-in chat screen depending on the session and swaps them when the
// user signs in or out, here or in another chatcpe window.
package home

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/chat"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
)

// Model holds the current screen.
type Model struct {
	sess  *session.Session
	base  chat.Options
	watch <-chan struct{}

	gen    int
	userID string
	screen chat.Model

	width  int
	height int
}

// New builds the container. opts is the template for every screen; its
// Gen, UserID and Threads are set per screen. watch is the channel from
// session.Watch, or nil to ignore other windows.
func New(sess *session.Session, opts chat.Options, watch <-chan struct{}) Model {
	opts.Session = sess
	m := Model{sess: sess, base: opts, watch: watch}
	m.screen = m.build(sess.Snapshot())
	return m
}

// build creates a fresh screen for snap with the next generation.
func (m *Model) build(snap session.Snapshot) chat.Model {
	m.gen++
	m.userID = snap.UserID
	opts := m.base
	opts.Gen = m.gen
	opts.UserID = snap.UserID
	opts.Threads = nil

	mode := chat.ModeGuest
	if snap.LoggedIn() {
		mode = chat.ModeLoggedIn
	}
	slog.Debug("showing screen", "mode", mode.String(), "gen", m.gen)
	return chat.New(mode, opts)
}

// Init starts the first screen and the session watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.screen.Init(), m.sess.WatchCmd(m.watch))
}

// Mode returns the mode of the current screen.
func (m Model) Mode() chat.Mode { return m.screen.Mode() }

// Screen returns the current screen.
func (m Model) Screen() chat.Model { return m.screen }

// Update routes session transitions and forwards everything else.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case components.SignedInMsg:
		return m.show(msg.Snapshot)

	case components.SignedOutMsg:
		return m.show(session.Snapshot{})

	case session.ChangedMsg:
		next := m.sess.WatchCmd(m.watch)
		cur := m.screen.Mode() == chat.ModeLoggedIn
		if msg.Snapshot.LoggedIn() == cur && (!cur || msg.Snapshot.UserID == m.userID) {
			return m, next
		}
		slog.Info("session changed in another window", "logged_in", msg.Snapshot.LoggedIn())
		m2, cmd := m.show(msg.Snapshot)
		return m2, tea.Batch(cmd, next)
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

// show replaces the screen. Replies addressed to the old screen carry
// its generation and are dropped by the new one.
func (m Model) show(snap session.Snapshot) (tea.Model, tea.Cmd) {
	m.screen = m.build(snap)
	if m.width > 0 {
		m.screen, _ = m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m, m.screen.Init()
}

// View renders the current screen.
func (m Model) View() string {
	return m.screen.View()
}
