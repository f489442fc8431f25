// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the panels and overlays of the chatcpe TUI.

Every component is a value type with Bubble Tea style Update and View
methods. Components that talk to the backend take it as a small
interface (AuthBackend, ContentBackend) and report back through typed
messages, so the owning view decides what happens next.

# Overlays

SignIn, SignUp, Profile, EditProfile and LogoutConfirm render a modal
box; PlaceOverlay centers it. Each reply carries the sequence number of
the opening that issued it, and replies for an earlier opening are
dropped.

# Panels

  - FAQAccordion: questions with at most one answer expanded
  - Documents: the forms list with loading, error and empty states
  - Sidebar: navigation, thread list and account actions

# Usage

	signIn := components.NewSignIn(theme, client, sess)
	cmd := signIn.Open("")
	// ... in Update:
	signIn, cmd = signIn.Update(msg)
*/
package components
