// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
)

func TestLoad_ThreadShape(t *testing.T) {
	m := newTestManager()
	m.Load([]api.HistoryThread{
		{
			ID:        "t1",
			Title:     "Fees",
			CreatedAt: "2025-01-02T03:04:05Z",
			Messages: []api.HistoryMessage{
				{ID: "7", Role: "user", Text: "How much?"},
				{ID: "8", Role: "bot", Text: "1000"},
			},
		},
		{ID: "t2", Title: "Other"},
	})

	threads := m.Threads()
	require.Len(t, threads, 2)
	assert.Equal(t, "t1", threads[0].ID)
	assert.Equal(t, "t2", threads[1].ID)
	assert.Equal(t, "t1", m.ActiveID())
	assert.Equal(t, 2025, threads[0].CreatedAt.Year())
	assert.Equal(t, RoleBot, threads[0].Messages[1].Role)
	assert.Equal(t, 9, m.NextID())
}

func TestLoad_FlatShape(t *testing.T) {
	m := newTestManager()
	m.Load([]api.HistoryThread{
		{
			ID:        "12",
			Message:   "When is the deadline for the senior project proposal?",
			CreatedAt: "2025-01-01T10:00:00",
			Answers:   []api.HistoryAnswer{{Answer: "Friday", LLMProvider: "open_webui"}},
		},
	})

	th, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "12", th.ID)
	assert.Equal(t, "When is the deadline for the sen...", th.Title)
	require.Len(t, th.Messages, 2)
	assert.Equal(t, RoleUser, th.Messages[0].Role)
	assert.Equal(t, "Friday", th.Messages[1].Text)
	assert.Equal(t, 2, th.Messages[0].ID)
	assert.Equal(t, 3, th.Messages[1].ID)
	assert.Equal(t, 4, m.NextID())
}

func TestLoad_EmptyHistory(t *testing.T) {
	m := newTestManager()
	m.NewChat()

	m.Load(nil)
	assert.Equal(t, 0, m.Len())
	_, ok := m.Active()
	assert.False(t, ok)
	assert.Equal(t, 2, m.NextID())
}

func TestLoad_MissingIDsAndTitles(t *testing.T) {
	m := newTestManager()
	m.Load([]api.HistoryThread{
		{Messages: []api.HistoryMessage{{Role: "user", Text: "Hi"}, {Role: "assistant", Text: "Hello"}}},
	})

	th, _ := m.Active()
	assert.True(t, th.Temporary())
	assert.Equal(t, "Hi", th.Title)
	assert.Equal(t, 0, th.Messages[0].ID)
	assert.Equal(t, 1, th.Messages[1].ID)
	assert.Equal(t, RoleBot, th.Messages[1].Role)
	assert.Equal(t, 2, m.NextID())
}

func TestLoad_ThenSendContinuesCounter(t *testing.T) {
	m := newTestManager()
	m.Load([]api.HistoryThread{
		{ID: "t1", Title: "T", Messages: []api.HistoryMessage{{ID: "20", Role: "user", Text: "x"}}},
	})

	p, err := m.Begin("more")
	require.NoError(t, err)
	assert.Equal(t, 21, p.FirstID)
	assert.Equal(t, "t1", p.ThreadID)
}
