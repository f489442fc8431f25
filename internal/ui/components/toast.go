// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// TOASTS - short notices that dismiss themselves
// =============================================================================

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

const (
	// ToastDuration is how long info and success toasts stay.
	ToastDuration = 4 * time.Second

	// ErrorToastDuration is longer so errors can be read.
	ErrorToastDuration = 8 * time.Second

	maxToasts = 3
)

// Toast is one notice.
type Toast struct {
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be gone at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// ToastTickMsg prunes expired toasts.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next prune.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// Toasts holds the visible notices, newest first.
type Toasts struct {
	items []Toast
	now   func() time.Time
}

// NewToasts creates an empty list.
func NewToasts() Toasts {
	return Toasts{now: time.Now}
}

// WithClock replaces the time source.
func (ts Toasts) WithClock(now func() time.Time) Toasts {
	ts.now = now
	return ts
}

// Add shows a notice and returns the tick command that will remove it.
func (ts *Toasts) Add(kind ToastKind, message string) tea.Cmd {
	d := ToastDuration
	if kind == ToastError {
		d = ErrorToastDuration
	}
	wasEmpty := len(ts.items) == 0
	ts.items = append([]Toast{{Message: message, Kind: kind, CreatedAt: ts.now(), Duration: d}}, ts.items...)
	if len(ts.items) > maxToasts {
		ts.items = ts.items[:maxToasts]
	}
	if wasEmpty {
		return ToastTickCmd()
	}
	return nil
}

// Tick drops expired toasts. It returns the next tick while any remain.
func (ts *Toasts) Tick(now time.Time) tea.Cmd {
	active := ts.items[:0]
	for _, t := range ts.items {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	ts.items = active
	if len(ts.items) > 0 {
		return ToastTickCmd()
	}
	return nil
}

// Items returns the visible toasts.
func (ts Toasts) Items() []Toast {
	return append([]Toast(nil), ts.items...)
}

// View renders the toasts stacked, or "" when there are none.
func (ts Toasts) View(width int) string {
	if len(ts.items) == 0 {
		return ""
	}
	var lines []string
	for _, t := range ts.items {
		var line string
		msg := util.FitWidth(t.Message, max(10, width-6))
		switch t.Kind {
		case ToastError:
			line = styles.RenderError(msg)
		case ToastSuccess:
			line = styles.RenderSuccess(msg)
		default:
			line = styles.RenderInfo(msg)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
