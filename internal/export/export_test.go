// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
)

var fixedNow = time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

func sampleThread() thread.Thread {
	return thread.Thread{
		ID:        "t-42",
		Title:     "ขอใบรับรอง: สถานะนักศึกษา",
		CreatedAt: fixedNow.Add(-time.Hour),
		Messages: []thread.Message{
			{ID: 1, Role: thread.RoleUser, Text: "How do I get a certificate?", CreatedAt: fixedNow.Add(-time.Hour)},
			{ID: 2, Role: thread.RoleBot, Text: "Use form **RO-01**.", CreatedAt: fixedNow.Add(-time.Hour)},
		},
	}
}

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions("")).Export(sampleThread())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, `title: "ขอใบรับรอง: สถานะนักศึกษา"`)
	assert.Contains(t, md, "thread_id: t-42")
	assert.Contains(t, md, "messages: 2")
	assert.Contains(t, md, "### You <sub>09:30:00</sub>")
	assert.Contains(t, md, "### Chat CPE")
	assert.Contains(t, md, "Use form **RO-01**.")
	assert.Less(t, strings.Index(md, "certificate?"), strings.Index(md, "RO-01"))
}

func TestMarkdownExporter_TemporaryThreadHasNoID(t *testing.T) {
	th := sampleThread()
	th.ID = thread.TempPrefix + "abc"
	opts := testOptions("")
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(th)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "thread_id")
	assert.Contains(t, string(out), "### You\n")
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(testOptions("")).Export(sampleThread())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "t-42", got["thread_id"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "bot", msgs[1].(map[string]any)["role"])
	assert.Equal(t, float64(2), msgs[1].(map[string]any)["id"])
}

func TestToFile_WritesAndLists(t *testing.T) {
	dir := t.TempDir()
	exp, err := ForFormat("md", nil)
	require.NoError(t, err)

	path, err := ToFile(sampleThread(), exp, testOptions(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "chat_ขอใบรับรอง-_สถานะนักศึกษา_20250304_103000.md", filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := List(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Path)
}

func TestToFile_EmptyThread(t *testing.T) {
	_, err := ToFile(thread.Thread{Title: "x"}, NewJSONExporter(nil), testOptions(t.TempDir()))
	assert.ErrorIs(t, err, ErrEmptyThread)
}

func TestToFile_DefaultDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)

	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }
	path, err := ToFile(sampleThread(), NewJSONExporter(opts), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "transcripts"), filepath.Dir(path))
}

func TestList_MissingDir(t *testing.T) {
	entries, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"", "md", "Markdown"} {
		e, err := ForFormat(f, nil)
		require.NoError(t, err)
		assert.Equal(t, ".md", e.FileExtension())
	}
	e, err := ForFormat("json", nil)
	require.NoError(t, err)
	assert.Equal(t, ".json", e.FileExtension())

	_, err = ForFormat("html", nil)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename("a/b:c d"))
	assert.Equal(t, "chat", sanitizeFilename("   "))
	assert.Equal(t, 50, len([]rune(sanitizeFilename(strings.Repeat("x", 80)))))
}
