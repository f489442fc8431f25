// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an identifier the backend sends either as a number or a string.
// It is always held as a string; null and absent decode to "".
type ID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		*id = ID(n.String())
	}
	return nil
}

// String returns the id as text.
func (id ID) String() string { return string(id) }

// Int returns the id as an integer, or 0 when it is not numeric.
func (id ID) Int() int {
	n, err := strconv.Atoi(string(id))
	if err != nil {
		return 0
	}
	return n
}

// Bool returns a pointer to b, for optional query parameters.
func Bool(b bool) *bool { return &b }

// ParseTime reads the timestamp formats the backend emits: RFC 3339 with
// or without zone, with or without fractional seconds. Unparseable or
// empty input yields the zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the reply of POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      ID     `json:"user_id"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RegisterResponse covers both reply shapes of POST /auth/register: a
// token for immediate sign-in, or a message when email verification is
// required first.
type RegisterResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	UserID      ID     `json:"user_id,omitempty"`
	Message     string `json:"message,omitempty"`
}

// SignedIn reports whether the reply carries a token.
func (r *RegisterResponse) SignedIn() bool {
	return r.AccessToken != ""
}

// Profile is the signed-in user.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateProfileResponse is the reply of PUT /auth/profile.
type UpdateProfileResponse struct {
	Message string  `json:"message"`
	User    Profile `json:"user"`
}

// MessageResponse is the generic {"message": ...} reply.
type MessageResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// FAQ
// =============================================================================

// FAQ is one question/answer pair. Answers may contain HTML.
type FAQ struct {
	ID           ID     `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	Category     string `json:"category,omitempty"`
	DisplayOrder int    `json:"display_order,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// =============================================================================
// CHAT
// =============================================================================

// SendRequest is the body of POST /chat/send.
type SendRequest struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// SendResponse is the reply of POST /chat/send. ThreadID is empty when
// the backend does not assign threads.
type SendResponse struct {
	ChatID   ID     `json:"chat_id"`
	Message  string `json:"message"`
	Answer   string `json:"answer"`
	ThreadID ID     `json:"thread_id"`
}

// HistoryThread is one entry of GET /chat/history. Two shapes are in use:
// threads ({id, title, created_at, messages}) and flat chat rows
// ({id, message, created_at, answers}). Both decode into this type.
type HistoryThread struct {
	ID        ID               `json:"id"`
	Title     string           `json:"title,omitempty"`
	CreatedAt string           `json:"created_at,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`

	// Flat chat row fields.
	Message string          `json:"message,omitempty"`
	Answers []HistoryAnswer `json:"answers,omitempty"`
}

// HistoryMessage is a message inside a history thread.
type HistoryMessage struct {
	ID        ID     `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

// HistoryAnswer is an answer attached to a flat chat row.
type HistoryAnswer struct {
	ID          ID     `json:"id,omitempty"`
	Answer      string `json:"answer"`
	LLMProvider string `json:"llm_provider,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Form is a downloadable university form.
type Form struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
