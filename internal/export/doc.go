// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat thread transcripts to disk.
//
// # Key Types
//
//   - Exporter: converts a thread.Thread to bytes in one format
//   - Options: output directory and header toggles
//   - Entry: a previously written transcript found by List
//
// # Supported Formats
//
//   - Markdown: human-readable, one section per message
//   - JSON: the thread with ids, roles and timestamps
//
// # Usage
//
//	exp, err := export.ForFormat("md", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ToFile(t, exp, nil)
package export
