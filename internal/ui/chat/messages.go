// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// sendResultMsg settles one pending exchange.
type sendResultMsg struct {
	gen     int
	pending thread.Pending
	res     *api.SendResponse
	err     error
}

// historyLoadedMsg carries the thread list fetched on mount.
type historyLoadedMsg struct {
	gen     int
	history []api.HistoryThread
	err     error
}

// accountLoadedMsg carries the profile fetched on mount for the sidebar.
type accountLoadedMsg struct {
	gen     int
	profile *api.Profile
	err     error
}

// threadDeletedMsg reports the best-effort backend delete of one thread.
type threadDeletedMsg struct {
	gen int
	id  string
	err error
}

// historyClearedMsg reports DELETE /chat/history.
type historyClearedMsg struct {
	gen int
	err error
}

// exportedMsg reports a transcript written to disk.
type exportedMsg struct {
	gen  int
	path string
	err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// SendCmd posts the pending message.
func SendCmd(s thread.Sender, gen int, p thread.Pending) tea.Cmd {
	return func() tea.Msg {
		res, err := s.SendMessage(context.Background(), p.Text, p.ThreadID)
		if err != nil {
			slog.Warn("send failed", "thread", p.ThreadID, "error", err)
		}
		return sendResultMsg{gen: gen, pending: p, res: res, err: err}
	}
}

// LoadHistoryCmd fetches the user's threads.
func LoadHistoryCmd(b Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		h, err := b.History(context.Background())
		return historyLoadedMsg{gen: gen, history: h, err: err}
	}
}

// LoadAccountCmd fetches the profile shown in the sidebar.
func LoadAccountCmd(b Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		p, err := b.Profile(context.Background())
		return accountLoadedMsg{gen: gen, profile: p, err: err}
	}
}

// DeleteThreadCmd tells the backend to drop one thread. A 404 or 405
// means the backend has no per-thread delete or already forgot the
// thread; the local removal stands either way.
func DeleteThreadCmd(b Backend, gen int, id string) tea.Cmd {
	return func() tea.Msg {
		_, err := b.DeleteThread(context.Background(), id)
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && (apiErr.Status == 404 || apiErr.Status == 405) {
			slog.Info("per-thread delete not available", "thread", id, "status", apiErr.Status)
			err = nil
		}
		return threadDeletedMsg{gen: gen, id: id, err: err}
	}
}

// ClearHistoryCmd deletes every thread on the backend.
func ClearHistoryCmd(b Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		_, err := b.DeleteHistory(context.Background())
		return historyClearedMsg{gen: gen, err: err}
	}
}

// ExportCmd writes the thread through export.
func ExportCmd(export func(thread.Thread) (string, error), gen int, t thread.Thread) tea.Cmd {
	return func() tea.Msg {
		path, err := export(t)
		return exportedMsg{gen: gen, path: path, err: err}
	}
}
