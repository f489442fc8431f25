// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Chat CPE screen.
//
// One Model serves both the guest view and the signed-in view. The mode
// only changes which sidebar actions, overlays and mount loads exist:
//
//   - Guest: a single temporary chat session, FAQ and documents panels,
//     sign in and sign up overlays.
//   - Signed in: the thread list with delete, history load on mount,
//     profile, edit profile and logout overlays.
//
// # Key Types
//
//   - Model: the Bubble Tea model for the screen
//   - Backend: the API operations the screen calls
//   - KeyMap: keyboard bindings, rendered through bubbles/help
//
// # Async Replies
//
// Every command result carries the generation of the Model that issued
// it. Home gives each new Model a fresh generation so replies that
// arrive after a sign in or sign out are dropped.
package chat
