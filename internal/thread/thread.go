// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

const (
	// DefaultTitle is the title of a thread created by "New Chat".
	DefaultTitle = "New Chat"

	// TitleLimit is how many characters of the first message become the title.
	TitleLimit = 32

	// TempPrefix marks ids that were never confirmed by the backend.
	TempPrefix = "temp-"

	// EmptyAnswer replaces an empty answer from the backend.
	EmptyAnswer = "ระบบไม่สามารถตอบได้ในขณะนี้"

	// SendFailed is the bot message appended when a send fails.
	SendFailed = "เกิดข้อผิดพลาดในการส่งข้อความ"
)

// Handle is the stable local key of a thread. The zero Handle refers to
// no thread.
type Handle int

// =============================================================================
// THREAD TYPE
// =============================================================================

// Thread is one conversation.
type Thread struct {
	Handle    Handle    `json:"-"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Temporary reports whether the thread id was generated locally.
func (t *Thread) Temporary() bool {
	return IsTemporary(t.ID)
}

// LastMessage returns the most recent message, or nil if empty.
func (t *Thread) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return &t.Messages[len(t.Messages)-1]
}

// clone returns a copy that shares nothing with t.
func (t *Thread) clone() Thread {
	c := *t
	c.Messages = append([]Message(nil), t.Messages...)
	return c
}

// NewTempID returns a fresh temporary thread id.
func NewTempID() string {
	return TempPrefix + uuid.NewString()
}

// IsTemporary reports whether id was generated by NewTempID.
func IsTemporary(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// TitleFrom derives a thread title from the first message text.
func TitleFrom(text string) string {
	return util.TruncateRunes(strings.TrimSpace(text), TitleLimit)
}
