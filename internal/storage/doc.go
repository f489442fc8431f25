// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the small key/value store that holds the
// client session between runs.
//
// # Backends
//
//   - SQLiteStore: default, a single file under ~/.chatcpe. The schema is
//     applied with golang-migrate from embedded SQL files.
//   - RedisStore: shared across machines or containers; keys are prefixed.
//   - MemoryStore: nothing survives the process. Used by tests and --ephemeral.
//
// # Change Notification
//
// Backends that implement Watcher report writes made by other processes
// (and by this one). SQLite watches its database file with fsnotify; Redis
// publishes on a pub/sub channel.
//
// # Usage
//
//	st, err := storage.Open(cfg.Storage)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//	token, err := st.Get(ctx, "access_token")
package storage
