// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports the complete thread. Options do not filter it.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	ThreadID   string        `json:"thread_id,omitempty"`
	Title      string        `json:"title"`
	CreatedAt  *time.Time    `json:"created_at,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Messages   []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	ID        int        `json:"id"`
	Role      string     `json:"role"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Export converts the thread to indented JSON.
func (e *JSONExporter) Export(t thread.Thread) ([]byte, error) {
	if len(t.Messages) == 0 {
		return nil, ErrEmptyThread
	}
	out := jsonTranscript{
		Title:      t.Title,
		CreatedAt:  timePtr(t.CreatedAt),
		ExportedAt: e.options.now().UTC(),
		Messages:   make([]jsonMessage, 0, len(t.Messages)),
	}
	if !t.Temporary() {
		out.ThreadID = t.ID
	}
	for _, m := range t.Messages {
		out.Messages = append(out.Messages, jsonMessage{
			ID:        m.ID,
			Role:      string(m.Role),
			Text:      m.Text,
			CreatedAt: timePtr(m.CreatedAt),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
