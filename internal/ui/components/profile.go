// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// =============================================================================
// PROFILE OVERLAY
// =============================================================================

// Profile shows the signed-in user. It fetches on Open.
type Profile struct {
	theme   *styles.Theme
	backend AuthBackend

	profile *api.Profile
	err     string
	loading bool
	seq     int

	width int
}

type profileLoadedMsg struct {
	seq     int
	profile *api.Profile
	err     error
}

// NewProfile creates the overlay.
func NewProfile(theme *styles.Theme, backend AuthBackend) Profile {
	return Profile{theme: theme, backend: backend}
}

// Open starts loading the profile.
func (m *Profile) Open() tea.Cmd {
	m.seq++
	m.loading = true
	m.err = ""
	m.profile = nil
	seq, backend := m.seq, m.backend
	return func() tea.Msg {
		p, err := backend.Profile(context.Background())
		return profileLoadedMsg{seq: seq, profile: p, err: err}
	}
}

// SetWidth sets the modal width in cells.
func (m *Profile) SetWidth(w int) { m.width = w }

// Current returns the loaded profile, or nil.
func (m Profile) Current() *api.Profile { return m.profile }

// Err returns the load error shown, if any.
func (m Profile) Err() string { return m.err }

// Update handles the fetch reply and keys.
func (m Profile) Update(msg tea.Msg) (Profile, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = api.Detail(msg.err, "Failed to load profile")
			m.profile = nil
			return m, nil
		}
		m.profile = msg.profile

	case ProfileUpdatedMsg:
		p := msg.Profile
		m.profile = &p
		m.err = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, closeOverlay
		case "e", "enter":
			return m, switchOverlay(OverlayEditProfile, "")
		}
	}
	return m, nil
}

// View renders the overlay box.
func (m Profile) View() string {
	value := func(get func(*api.Profile) string) string {
		switch {
		case m.loading:
			return "Loading..."
		case m.err != "":
			return m.theme.Error.Render("Error: " + m.err)
		case m.profile == nil || get(m.profile) == "":
			return "N/A"
		}
		return get(m.profile)
	}

	var b strings.Builder
	b.WriteString(m.theme.ModalLabel.Render("Username"))
	b.WriteString("\n  ")
	b.WriteString(value(func(p *api.Profile) string { return p.Name }))
	b.WriteString("\n\n")
	b.WriteString(m.theme.ModalLabel.Render("Email"))
	b.WriteString("\n  ")
	b.WriteString(value(func(p *api.Profile) string { return p.Email }))
	if m.profile != nil && m.profile.Role != "" {
		b.WriteString("\n\n")
		b.WriteString(m.theme.ModalLabel.Render("Role"))
		b.WriteString("\n  ")
		b.WriteString(m.profile.Role)
	}
	b.WriteString("\n\n")
	b.WriteString(m.theme.Button.Render("Edit profile"))

	return modalFrame(m.theme, m.width, "Profile", b.String(), "", "", "e edit profile • esc close")
}

// =============================================================================
// EDIT PROFILE OVERLAY
// =============================================================================

// EditProfile changes the display name.
type EditProfile struct {
	theme   *styles.Theme
	backend AuthBackend

	form    form
	err     string
	loading bool
	seq     int

	width int
}

type profileSavedMsg struct {
	seq     int
	profile api.Profile
	err     error
}

// NewEditProfile creates the overlay.
func NewEditProfile(theme *styles.Theme, backend AuthBackend) EditProfile {
	return EditProfile{
		theme:   theme,
		backend: backend,
		form:    newForm(fieldSpec{Label: "New Username", Placeholder: "Enter new username"}),
	}
}

// Open resets the overlay and pre-fills the current name.
func (m *EditProfile) Open(current string) tea.Cmd {
	m.seq++
	m.err = ""
	m.loading = false
	cmd := m.form.reset()
	m.form.setValue(0, current)
	return cmd
}

// SetWidth sets the modal width in cells.
func (m *EditProfile) SetWidth(w int) {
	m.width = w
	m.form.setWidth(inputWidth(w))
}

// Err returns the error line currently shown.
func (m EditProfile) Err() string { return m.err }

// Update handles input and the save reply.
func (m EditProfile) Update(msg tea.Msg) (EditProfile, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = api.Detail(msg.err, "Failed to update profile")
			return m, nil
		}
		p := msg.profile
		return m, func() tea.Msg { return ProfileUpdatedMsg{Profile: p} }

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, switchOverlay(OverlayProfile, "")
		case "enter":
			return m.submit()
		}
	}
	return m, m.form.update(msg)
}

func (m EditProfile) submit() (EditProfile, tea.Cmd) {
	name := strings.TrimSpace(m.form.value(0))
	if name == "" {
		m.err = "Please enter a username"
		return m, nil
	}
	m.loading = true
	m.err = ""
	seq, backend := m.seq, m.backend
	return m, func() tea.Msg {
		res, err := backend.UpdateProfile(context.Background(), name)
		if err != nil {
			return profileSavedMsg{seq: seq, err: err}
		}
		p := res.User
		if p.Name == "" {
			p.Name = name
		}
		return profileSavedMsg{seq: seq, profile: p}
	}
}

// View renders the overlay box.
func (m EditProfile) View() string {
	button := m.theme.ButtonActive.Render("Save")
	if m.loading {
		button = m.theme.Button.Render("Saving...")
	}
	return modalFrame(m.theme, m.width, "Edit Profile",
		m.form.view(m.theme)+"\n\n"+button,
		m.err, "", "enter save • esc back")
}

// =============================================================================
// LOGOUT CONFIRMATION
// =============================================================================

// LogoutConfirm asks before signing out. Confirming calls the backend
// and then clears the session whatever the backend answered.
type LogoutConfirm struct {
	theme   *styles.Theme
	backend AuthBackend
	sess    SessionWriter

	yes     bool // focused button
	loading bool

	width int
}

// NewLogoutConfirm creates the overlay.
func NewLogoutConfirm(theme *styles.Theme, backend AuthBackend, sess SessionWriter) LogoutConfirm {
	return LogoutConfirm{theme: theme, backend: backend, sess: sess}
}

// Open resets the focus to "No".
func (m *LogoutConfirm) Open() {
	m.yes = false
	m.loading = false
}

// SetWidth sets the modal width in cells.
func (m *LogoutConfirm) SetWidth(w int) { m.width = w }

// Update handles keys.
func (m LogoutConfirm) Update(msg tea.Msg) (LogoutConfirm, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}
	switch key.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.yes = !m.yes
	case "y", "Y":
		return m.confirm()
	case "n", "N", "esc":
		return m, closeOverlay
	case "enter":
		if m.yes {
			return m.confirm()
		}
		return m, closeOverlay
	}
	return m, nil
}

func (m LogoutConfirm) confirm() (LogoutConfirm, tea.Cmd) {
	m.loading = true
	backend, sess := m.backend, m.sess
	return m, func() tea.Msg {
		ctx := context.Background()
		if _, err := backend.Logout(ctx); err != nil {
			slog.Warn("logout request failed", "error", err)
		}
		if err := sess.SignOut(ctx); err != nil {
			slog.Error("failed to clear session", "error", err)
		}
		return SignedOutMsg{}
	}
}

// View renders the overlay box.
func (m LogoutConfirm) View() string {
	no, yes := m.theme.Button, m.theme.Button
	if m.yes {
		yes = m.theme.ButtonDanger
	} else {
		no = m.theme.ButtonActive
	}
	body := "Are you sure you want to log out?\n\n" +
		no.Render("No") + "  " + yes.Render("Yes")
	hint := "y yes • n no • ←/→ choose"
	if m.loading {
		hint = "Logging out..."
	}
	return modalFrame(m.theme, m.width, "Confirm Logout", body, "", "", hint)
}
