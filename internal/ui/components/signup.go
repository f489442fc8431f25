// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

const (
	signUpName = iota
	signUpEmail
	signUpPassword
	signUpConfirm
)

// VerifyNotice is shown when registration needs email verification and
// the backend sent no message of its own.
const VerifyNotice = "Registration successful. Please verify your email, then sign in."

// =============================================================================
// SIGN UP OVERLAY
// =============================================================================

// SignUp is the registration overlay. A token reply signs the user in; a
// message reply switches back to SignIn with the message as notice.
type SignUp struct {
	theme   *styles.Theme
	backend AuthBackend
	sess    SessionWriter

	form    form
	err     string
	loading bool
	seq     int

	width int
}

type signUpResultMsg struct {
	seq     int
	snap    session.Snapshot
	message string
	err     error
}

// NewSignUp creates the overlay.
func NewSignUp(theme *styles.Theme, backend AuthBackend, sess SessionWriter) SignUp {
	return SignUp{
		theme:   theme,
		backend: backend,
		sess:    sess,
		form: newForm(
			fieldSpec{Label: "Username", Placeholder: "Enter your full name"},
			fieldSpec{Label: "Email", Placeholder: "Enter your email (@mail.kmutt.ac.th)"},
			fieldSpec{Label: "Password", Placeholder: "Enter a password", Secret: true},
			fieldSpec{Label: "Confirm Password", Placeholder: "Confirm your password", Secret: true},
		),
	}
}

// Open resets the overlay.
func (m *SignUp) Open() tea.Cmd {
	m.seq++
	m.err = ""
	m.loading = false
	return m.form.reset()
}

// SetWidth sets the modal width in cells.
func (m *SignUp) SetWidth(w int) {
	m.width = w
	m.form.setWidth(inputWidth(w))
}

// Err returns the error line currently shown.
func (m SignUp) Err() string { return m.err }

// Update handles input and registration replies.
func (m SignUp) Update(msg tea.Msg) (SignUp, tea.Cmd) {
	switch msg := msg.(type) {
	case signUpResultMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		switch {
		case msg.err != nil:
			m.err = api.Detail(msg.err, "Registration failed")
			return m, nil
		case msg.snap.LoggedIn():
			snap := msg.snap
			return m, func() tea.Msg { return SignedInMsg{Snapshot: snap} }
		default:
			notice := msg.message
			if notice == "" {
				notice = VerifyNotice
			}
			return m, switchOverlay(OverlaySignIn, notice)
		}

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
			return m, switchOverlay(OverlaySignIn, "")
		case "enter":
			if !m.form.onLast() {
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

func (m SignUp) submit() (SignUp, tea.Cmd) {
	req := api.RegisterRequest{
		Name:            strings.TrimSpace(m.form.value(signUpName)),
		Email:           strings.TrimSpace(m.form.value(signUpEmail)),
		Password:        m.form.value(signUpPassword),
		ConfirmPassword: m.form.value(signUpConfirm),
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		m.err = "Please fill in all fields"
		return m, nil
	}
	if req.Password != req.ConfirmPassword {
		m.err = "Passwords do not match"
		return m, nil
	}
	m.loading = true
	m.err = ""
	return m, m.register(req)
}

func (m SignUp) register(req api.RegisterRequest) tea.Cmd {
	seq, backend, sess := m.seq, m.backend, m.sess
	return func() tea.Msg {
		ctx := context.Background()
		res, err := backend.Register(ctx, req)
		if err != nil {
			return signUpResultMsg{seq: seq, err: err}
		}
		if !res.SignedIn() {
			return signUpResultMsg{seq: seq, message: res.Message}
		}
		userID := res.UserID.String()
		if err := sess.SignIn(ctx, res.AccessToken, userID); err != nil {
			return signUpResultMsg{seq: seq, err: fmt.Errorf("save session: %w", err)}
		}
		return signUpResultMsg{seq: seq, snap: session.Snapshot{Token: res.AccessToken, UserID: userID}}
	}
}

// View renders the overlay box.
func (m SignUp) View() string {
	hint := "enter next/submit • tab next field • ctrl+r sign in • esc close"
	if m.loading {
		hint = "Creating account..."
	}
	return modalFrame(m.theme, m.width, "Create your account", m.form.view(m.theme), m.err, "", hint)
}
