// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the chatcpe packages.
//
// # Key Functions
//
// Text:
//   - TruncateRunes: UTF-8 safe truncation with "..."
//   - FitWidth: truncation by terminal display width (Thai, CJK aware)
//   - NormalizeInput: NFC normalization and trimming of typed text
//   - HTMLToText: plain text from backend HTML fragments
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateRunes(text, 35)
//	cell := util.FitWidth(title, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
