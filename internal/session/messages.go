// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ChangedMsg is sent when the stored session changed outside this view,
// e.g. another chatcpe window signed out.
type ChangedMsg struct {
	Snapshot Snapshot
}

// WatchCmd waits on a change channel from Watch, reloads, and reports a
// ChangedMsg when the values actually differ. Signals caused by our own
// writes reload to the same values and are skipped. Returns nil when ch
// is nil or closed. Re-issue the command after each ChangedMsg.
func (s *Session) WatchCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		for range ch {
			changed, err := s.Reload(context.Background())
			if err != nil {
				slog.Warn("session reload failed", "error", err)
				continue
			}
			if changed {
				return ChangedMsg{Snapshot: s.Snapshot()}
			}
		}
		return nil
	}
}
