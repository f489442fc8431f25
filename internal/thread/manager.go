// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

var (
	// ErrEmptyMessage is returned by Begin and Send for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrUnknownThread is returned when an id matches no thread.
	ErrUnknownThread = errors.New("unknown thread")
)

// Sender posts a message to the backend. *api.Client implements it.
type Sender interface {
	SendMessage(ctx context.Context, message, threadID string) (*api.SendResponse, error)
}

// Pending is an exchange reserved by Begin and settled by Complete.
type Pending struct {
	Handle   Handle
	ThreadID string // id sent to the backend
	Text     string
	FirstID  int // user message id; the bot message gets FirstID+1
	At       time.Time
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the thread list. It is not safe for concurrent use; the
// Bubble Tea update loop is its only caller.
type Manager struct {
	threads    map[Handle]*Thread
	order      []Handle // most recently touched first
	active     Handle
	lastHandle Handle
	nextID     int

	now    func() time.Time
	tempID func() string
}

// NewManager returns an empty manager whose message counter starts at 1.
func NewManager() *Manager {
	return &Manager{
		threads: make(map[Handle]*Thread),
		nextID:  1,
		now:     time.Now,
		tempID:  NewTempID,
	}
}

// WithClock replaces the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithTempIDs replaces the temporary id generator.
func (m *Manager) WithTempIDs(gen func() string) *Manager {
	m.tempID = gen
	return m
}

// NextID returns the id the next user message will get.
func (m *Manager) NextID() int {
	return m.nextID
}

// Len returns the number of threads.
func (m *Manager) Len() int {
	return len(m.order)
}

// Threads returns copies of all threads, most recently touched first.
func (m *Manager) Threads() []Thread {
	out := make([]Thread, 0, len(m.order))
	for _, h := range m.order {
		out = append(out, m.threads[h].clone())
	}
	return out
}

// Get returns a copy of the thread behind h.
func (m *Manager) Get(h Handle) (Thread, bool) {
	t, ok := m.threads[h]
	if !ok {
		return Thread{}, false
	}
	return t.clone(), true
}

// Lookup resolves an external id to its handle.
func (m *Manager) Lookup(id string) (Handle, bool) {
	for _, h := range m.order {
		if m.threads[h].ID == id {
			return h, true
		}
	}
	return 0, false
}

// Active returns a copy of the active thread.
func (m *Manager) Active() (Thread, bool) {
	if m.active == 0 {
		return Thread{}, false
	}
	return m.Get(m.active)
}

// ActiveID returns the external id of the active thread, or "".
func (m *Manager) ActiveID() string {
	if t, ok := m.threads[m.active]; ok {
		return t.ID
	}
	return ""
}

// Index returns the position of h in the list, or -1.
func (m *Manager) Index(h Handle) int {
	for i, x := range m.order {
		if x == h {
			return i
		}
	}
	return -1
}

// =============================================================================
// OPERATIONS
// =============================================================================

// NewChat prepends an empty thread with a temporary id and activates it.
func (m *Manager) NewChat() Handle {
	now := m.now()
	return m.insert(&Thread{
		ID:        m.tempID(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// SelectThread makes the thread with the given id active.
func (m *Manager) SelectThread(id string) error {
	h, ok := m.Lookup(id)
	if !ok {
		return ErrUnknownThread
	}
	m.active = h
	return nil
}

// DeleteThread removes the thread with the given id and clears the
// selection if it was active. remote reports whether the backend knows
// the thread and should be told.
func (m *Manager) DeleteThread(id string) (remote bool, err error) {
	h, ok := m.Lookup(id)
	if !ok {
		return false, ErrUnknownThread
	}
	m.remove(h)
	delete(m.threads, h)
	if m.active == h {
		m.active = 0
	}
	return !IsTemporary(id), nil
}

// Begin reserves an exchange for text. Without an active thread it first
// creates one titled after the text. The counter advances by two.
func (m *Manager) Begin(text string) (Pending, error) {
	text = util.NormalizeInput(text)
	if text == "" {
		return Pending{}, ErrEmptyMessage
	}

	now := m.now()
	if _, ok := m.threads[m.active]; !ok {
		m.insert(&Thread{
			ID:        m.tempID(),
			Title:     TitleFrom(text),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	p := Pending{
		Handle:   m.active,
		ThreadID: m.threads[m.active].ID,
		Text:     text,
		FirstID:  m.nextID,
		At:       now,
	}
	m.nextID += 2
	return p, nil
}

// Complete settles p with the backend reply. Exactly two messages are
// appended whatever sendErr is, and the thread moves to the front. The
// selection is left alone unless nothing is selected, in which case the
// settled thread becomes active. A thread deleted while the request was
// in flight is recreated. A local thread already carrying the server id
// is merged into the settled one.
func (m *Manager) Complete(p Pending, res *api.SendResponse, sendErr error) Thread {
	answer := SendFailed
	realID := p.ThreadID
	if sendErr == nil {
		answer = EmptyAnswer
		if res != nil {
			if res.Answer != "" {
				answer = res.Answer
			}
			if id := res.ThreadID.String(); id != "" {
				realID = id
			}
		}
	}

	msgs := []Message{
		{ID: p.FirstID, Role: RoleUser, Text: p.Text, CreatedAt: p.At},
		{ID: p.FirstID + 1, Role: RoleBot, Text: answer, CreatedAt: p.At.Add(time.Millisecond)},
	}

	selected := m.active
	t, ok := m.threads[p.Handle]
	if !ok {
		t = m.threads[m.insert(&Thread{
			ID:        realID,
			Title:     TitleFrom(p.Text),
			CreatedAt: p.At,
		})]
	}
	m.absorb(t, realID)

	t.ID = realID
	if t.Title == DefaultTitle {
		t.Title = TitleFrom(p.Text)
	}
	t.Messages = append(t.Messages, msgs...)
	t.UpdatedAt = p.At
	m.remove(t.Handle)
	m.order = append([]Handle{t.Handle}, m.order...)

	if _, ok := m.threads[selected]; ok {
		m.active = selected
	} else {
		m.active = t.Handle
	}
	return t.clone()
}

// Send runs Begin, the request and Complete in one call. The returned
// error is ErrEmptyMessage or the send error; on a send error the thread
// still carries the fallback exchange.
func (m *Manager) Send(ctx context.Context, s Sender, text string) (Thread, error) {
	p, err := m.Begin(text)
	if err != nil {
		return Thread{}, err
	}
	res, sendErr := s.SendMessage(ctx, p.Text, p.ThreadID)
	return m.Complete(p, res, sendErr), sendErr
}

// Clear drops every thread. The message counter is kept.
func (m *Manager) Clear() {
	m.threads = make(map[Handle]*Thread)
	m.order = nil
	m.active = 0
}

// =============================================================================
// INTERNAL
// =============================================================================

// insert prepends t, activates it and returns its new handle.
func (m *Manager) insert(t *Thread) Handle {
	m.lastHandle++
	t.Handle = m.lastHandle
	m.threads[t.Handle] = t
	m.order = append([]Handle{t.Handle}, m.order...)
	m.active = t.Handle
	return t.Handle
}

// absorb folds every other thread whose id is id into t. Messages are
// kept in id order.
func (m *Manager) absorb(t *Thread, id string) {
	for _, h := range slices.Clone(m.order) {
		other := m.threads[h]
		if h == t.Handle || other.ID != id {
			continue
		}
		t.Messages = append(other.Messages, t.Messages...)
		slices.SortStableFunc(t.Messages, func(a, b Message) int { return a.ID - b.ID })
		if t.Title == DefaultTitle {
			t.Title = other.Title
		}
		if other.CreatedAt.Before(t.CreatedAt) {
			t.CreatedAt = other.CreatedAt
		}
		delete(m.threads, h)
		m.remove(h)
	}
}

func (m *Manager) remove(h Handle) {
	for i, x := range m.order {
		if x == h {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
