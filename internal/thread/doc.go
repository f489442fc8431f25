// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package thread manages the chat thread list shown by the chat views.
//
// Threads live in an arena keyed by a stable local Handle. The external
// ID starts as a temporary "temp-<uuid>" value and is swapped for the
// server id once a send succeeds, without invalidating handles held by
// in-flight commands.
//
// # Key Types
//
//   - Manager: ordered thread list, active selection, message id counter
//   - Thread: one conversation with its external id and messages
//   - Message: a user or bot message
//   - Pending: a reserved exchange between Begin and Complete
//
// # Usage
//
//	m := thread.NewManager()
//	p, err := m.Begin("Hello")
//	if err != nil {
//	    return err
//	}
//	res, err := client.SendMessage(ctx, p.Text, p.ThreadID)
//	t := m.Complete(p, res, err)
package thread
