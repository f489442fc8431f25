// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the signed-in user's access token and id.
//
// A Session is created once in main and passed to everything that needs
// it: the API client reads the bearer token from it and the views switch
// on LoggedIn. Values are persisted in a storage.Store under the keys
// access_token and user_id.
//
// # Key Types
//
//   - Session: mutex-guarded token and user id with change callbacks
//   - Claims: subject and expiry decoded from the JWT (unverified)
//   - ChangedMsg: Bubble Tea message sent when another instance signs in or out
//
// # Usage
//
//	sess := session.New(store)
//	if err := sess.Load(ctx); err != nil {
//	    return err
//	}
//	if sess.LoggedIn() {
//	    // show the logged-in view
//	}
package session
