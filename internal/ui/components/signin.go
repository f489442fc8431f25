// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

const (
	signInEmail = iota
	signInPassword
)

// =============================================================================
// SIGN IN OVERLAY
// =============================================================================

// SignIn is the sign in overlay. On success it stores the token and user
// id through the SessionWriter and emits SignedInMsg.
type SignIn struct {
	theme   *styles.Theme
	backend AuthBackend
	sess    SessionWriter

	form    form
	err     string
	notice  string
	loading bool
	seq     int // stale replies from an earlier opening are dropped

	width int
}

// signInResultMsg carries the outcome of a login request.
type signInResultMsg struct {
	seq  int
	snap session.Snapshot
	err  error
}

// NewSignIn creates the overlay.
func NewSignIn(theme *styles.Theme, backend AuthBackend, sess SessionWriter) SignIn {
	return SignIn{
		theme:   theme,
		backend: backend,
		sess:    sess,
		form: newForm(
			fieldSpec{Label: "Email", Placeholder: "Enter your email"},
			fieldSpec{Label: "Password", Placeholder: "Enter your password", Secret: true},
		),
	}
}

// Open resets the overlay. notice is shown above the form.
func (m *SignIn) Open(notice string) tea.Cmd {
	m.seq++
	m.err = ""
	m.notice = notice
	m.loading = false
	return m.form.reset()
}

// SetWidth sets the modal width in cells.
func (m *SignIn) SetWidth(w int) {
	m.width = w
	m.form.setWidth(inputWidth(w))
}

// Err returns the error line currently shown.
func (m SignIn) Err() string { return m.err }

// Loading reports whether a request is in flight.
func (m SignIn) Loading() bool { return m.loading }

// Update handles input and login replies.
func (m SignIn) Update(msg tea.Msg) (SignIn, tea.Cmd) {
	switch msg := msg.(type) {
	case signInResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = api.Detail(msg.err, "Login failed")
			return m, nil
		}
		snap := msg.snap
		return m, func() tea.Msg { return SignedInMsg{Snapshot: snap} }

	case tea.KeyMsg:
		// The request writes the session when it succeeds, so the
		// overlay stays until its reply arrives.
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, closeOverlay
		case "ctrl+r":
			return m, switchOverlay(OverlaySignUp, "")
		case "enter":
			if !m.form.onLast() && m.form.value(signInPassword) == "" {
				cmd := m.form.next()
				return m, cmd
			}
			return m.submit()
		}
		if cmd, ok := m.form.handleNav(msg); ok {
			return m, cmd
		}
	}
	return m, m.form.update(msg)
}

func (m SignIn) submit() (SignIn, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(signInEmail))
	password := m.form.value(signInPassword)
	if email == "" || password == "" {
		m.err = "Please enter email and password"
		return m, nil
	}
	m.loading = true
	m.err = ""
	m.notice = ""
	return m, m.login(email, password)
}

func (m SignIn) login(email, password string) tea.Cmd {
	seq, backend, sess := m.seq, m.backend, m.sess
	return func() tea.Msg {
		ctx := context.Background()
		res, err := backend.Login(ctx, email, password)
		if err != nil {
			slog.Info("login failed", "error", err)
			return signInResultMsg{seq: seq, err: err}
		}
		userID := res.UserID.String()
		if err := sess.SignIn(ctx, res.AccessToken, userID); err != nil {
			return signInResultMsg{seq: seq, err: fmt.Errorf("save session: %w", err)}
		}
		return signInResultMsg{seq: seq, snap: session.Snapshot{Token: res.AccessToken, UserID: userID}}
	}
}

// View renders the overlay box.
func (m SignIn) View() string {
	hint := "enter sign in • tab next field • ctrl+r sign up • esc close"
	if m.loading {
		hint = "Signing in..."
	}
	return modalFrame(m.theme, m.width, "Welcome to Chat CPE",
		m.form.view(m.theme)+"\n\n"+m.theme.Muted.Render("Don't have an account? ctrl+r to sign up"),
		m.err, m.notice, hint)
}

func closeOverlay() tea.Msg { return CloseOverlayMsg{} }

func switchOverlay(to OverlayKind, notice string) tea.Cmd {
	return func() tea.Msg { return SwitchOverlayMsg{To: to, Notice: notice} }
}
