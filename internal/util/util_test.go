// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", content, data)
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "deep", "config.toml")

	if err := AtomicWriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_OverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "updated" {
		t.Errorf("got %q, want %q", content, "updated")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "Hello", 32, "Hello"},
		{"exact", "abcd", 4, "abcd"},
		{"long", "abcdefgh", 4, "abcd..."},
		{"thai", "สวัสดีครับ", 3, "สวั..."},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestFitWidth(t *testing.T) {
	if got := FitWidth("short", 10); got != "short" {
		t.Errorf("FitWidth kept text = %q", got)
	}

	got := FitWidth("a very long thread title", 10)
	if w := runewidth.StringWidth(got); w > 10 {
		t.Errorf("FitWidth width = %d, want <= 10 (%q)", w, got)
	}

	// Wide characters count as two cells.
	got = FitWidth("日本語のタイトル", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("FitWidth CJK width = %d, want <= 7 (%q)", w, got)
	}
}

func TestPadWidth(t *testing.T) {
	got := PadWidth("ab", 5)
	if got != "ab   " {
		t.Errorf("PadWidth = %q", got)
	}
}

func TestNormalizeInput(t *testing.T) {
	// "e" followed by a combining acute composes to a single rune.
	got := NormalizeInput("  cafe\u0301 \n")
	if got != "caf\u00e9" {
		t.Errorf("NormalizeInput = %q, want %q", got, "caf\u00e9")
	}
	if NormalizeInput("   ") != "" {
		t.Error("whitespace-only input should normalize to empty")
	}
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Office hours are 9-16  ", "Office hours are 9-16"},
		{"inline", "<p>Hello <b>world</b></p>", "Hello world"},
		{"paragraphs", "<p>One</p><p>Two</p>", "One\nTwo"},
		{"list", "Steps:<ul><li>Fill form</li><li>Submit</li></ul>", "Steps:\n• Fill form\n• Submit"},
		{"break", "line1<br>line2", "line1\nline2"},
		{"script", "<p>ok</p><script>alert(1)</script>", "ok"},
		{"entity", "A &amp; B", "A & B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToText(tt.in); got != tt.want {
				t.Errorf("HTMLToText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
