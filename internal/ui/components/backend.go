// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"context"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// AuthBackend is the part of the API client the account overlays use.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Profile(ctx context.Context) (*api.Profile, error)
	UpdateProfile(ctx context.Context, name string) (*api.UpdateProfileResponse, error)
	Logout(ctx context.Context) (*api.MessageResponse, error)
}

// ContentBackend serves the read-only panels.
type ContentBackend interface {
	FAQs(ctx context.Context, active *bool) ([]api.FAQ, error)
	Forms(ctx context.Context) ([]api.Form, error)
}

// SessionWriter persists sign-in state. *session.Session implements it.
type SessionWriter interface {
	SignIn(ctx context.Context, token, userID string) error
	SignOut(ctx context.Context) error
}

// =============================================================================
// OVERLAY MESSAGES
// =============================================================================

// OverlayKind names an overlay.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlaySignIn
	OverlaySignUp
	OverlayProfile
	OverlayEditProfile
	OverlayLogout
)

// CloseOverlayMsg asks the owner to hide the current overlay.
type CloseOverlayMsg struct{}

// SwitchOverlayMsg asks the owner to replace the current overlay.
type SwitchOverlayMsg struct {
	To     OverlayKind
	Notice string // shown by the target, e.g. after registration
}

// SignedInMsg reports a completed sign in or sign up.
type SignedInMsg struct {
	Snapshot session.Snapshot
}

// SignedOutMsg reports that the session was cleared.
type SignedOutMsg struct{}

// ProfileUpdatedMsg reports a saved display name.
type ProfileUpdatedMsg struct {
	Profile api.Profile
}
