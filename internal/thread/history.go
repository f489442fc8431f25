// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"time"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
)

// Load replaces the thread list with history, activates the first thread
// and moves the counter past the largest message id (to at least 2).
//
// Entries either carry messages (thread shape) or are a single chat row
// with its answers (flat shape). Flat rows become one thread each; their
// messages are numbered after the largest id seen in thread-shaped rows.
func (m *Manager) Load(history []api.HistoryThread) {
	m.Clear()

	maxID := 1
	for _, h := range history {
		for _, msg := range h.Messages {
			if id := msg.ID.Int(); id > maxID {
				maxID = id
			}
		}
	}

	now := m.now()
	flatID := maxID + 1
	threads := make([]*Thread, 0, len(history))
	for _, h := range history {
		var t *Thread
		if isFlat(h) {
			t = m.fromFlat(h, &flatID, now)
		} else {
			t = m.fromThread(h, now)
		}
		for _, msg := range t.Messages {
			if msg.ID > maxID {
				maxID = msg.ID
			}
		}
		threads = append(threads, t)
	}

	// insert prepends, so walk backwards to keep the server order.
	for i := len(threads) - 1; i >= 0; i-- {
		m.insert(threads[i])
	}
	m.nextID = maxID + 1
}

func isFlat(h api.HistoryThread) bool {
	return len(h.Messages) == 0 && (h.Message != "" || len(h.Answers) > 0)
}

func (m *Manager) fromThread(h api.HistoryThread, now time.Time) *Thread {
	created := api.ParseTime(h.CreatedAt)
	if created.IsZero() {
		created = now
	}

	t := &Thread{
		ID:        h.ID.String(),
		Title:     h.Title,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for i, msg := range h.Messages {
		id := msg.ID.Int()
		if id == 0 {
			id = i
		}
		at := api.ParseTime(msg.CreatedAt)
		if at.IsZero() {
			at = now.Add(time.Duration(i) * time.Millisecond)
		}
		t.Messages = append(t.Messages, Message{
			ID:        id,
			Role:      ParseRole(msg.Role),
			Text:      msg.Text,
			CreatedAt: at,
		})
	}
	m.fillThread(t)
	return t
}

func (m *Manager) fromFlat(h api.HistoryThread, next *int, now time.Time) *Thread {
	created := api.ParseTime(h.CreatedAt)
	if created.IsZero() {
		created = now
	}

	t := &Thread{
		ID:        h.ID.String(),
		Title:     h.Title,
		CreatedAt: created,
		UpdatedAt: created,
	}
	if h.Message != "" {
		t.Messages = append(t.Messages, Message{ID: *next, Role: RoleUser, Text: h.Message, CreatedAt: created})
		*next++
	}
	for _, a := range h.Answers {
		at := api.ParseTime(a.CreatedAt)
		if at.IsZero() {
			at = created
		}
		t.Messages = append(t.Messages, Message{ID: *next, Role: RoleBot, Text: a.Answer, CreatedAt: at})
		*next++
		if at.After(t.UpdatedAt) {
			t.UpdatedAt = at
		}
	}
	m.fillThread(t)
	return t
}

// fillThread supplies an id and title where the backend sent none.
func (m *Manager) fillThread(t *Thread) {
	if t.ID == "" {
		t.ID = m.tempID()
	}
	if t.Title != "" {
		return
	}
	for _, msg := range t.Messages {
		if msg.IsUser() && msg.Text != "" {
			t.Title = TitleFrom(msg.Text)
			return
		}
	}
	t.Title = DefaultTitle
}
