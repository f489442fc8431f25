// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import "time"

// Role identifies who wrote a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ParseRole maps the roles the backend emits onto Role. Anything that is
// not the user is shown as the bot.
func ParseRole(s string) Role {
	switch s {
	case "user", "human":
		return RoleUser
	default:
		return RoleBot
	}
}

// Message is a single chat message.
type Message struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser reports whether the user wrote the message.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}
