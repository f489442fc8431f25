// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
	"github.com/kmutt-cpe/chatcpe-tui/internal/export"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineInput reads REPL lines. Prompt returns io.EOF on ctrl+d and
// liner.ErrPromptAborted on ctrl+c.
type LineInput interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerInput is LineInput on top of liner, with history kept in
// ~/.chatcpe/chat_history.
type linerInput struct {
	state       *liner.State
	historyFile string
}

func newLinerInput() (LineInput, error) {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	in := &linerInput{state: state}
	if dir, err := config.ConfigDir(); err == nil {
		in.historyFile = filepath.Join(dir, "chat_history")
		if f, err := os.Open(in.historyFile); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return in, nil
}

func (l *linerInput) Prompt(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *linerInput) AppendHistory(line string) {
	l.state.AppendHistory(line)
}

// Close saves the history with owner-only permissions and restores the
// terminal.
func (l *linerInput) Close() error {
	if l.historyFile != "" {
		var buf bytes.Buffer
		if _, err := l.state.WriteHistory(&buf); err == nil {
			if err := util.AtomicWriteFile(l.historyFile, buf.Bytes(), 0600); err != nil {
				slog.Warn("failed to save chat history", "error", err)
			}
		}
	}
	return l.state.Close()
}

// =============================================================================
// CHAT REPL
// =============================================================================

const replHelp = `Commands:
  /new            start a new chat
  /threads        list threads
  /open N|ID      switch to a thread
  /delete         delete the current thread
  /export [json]  save the current thread
  /help           show this help
  /quit           leave (also ctrl+d)`

// repl is the state of one chat session.
type repl struct {
	app      *App
	in       LineInput
	threads  *thread.Manager
	loggedIn bool
}

// Chat runs the interactive line REPL. Signed in, saved threads are
// loaded and replies continue them; as a guest there is one session
// that /new starts over.
func (a *App) Chat(ctx context.Context, raw []string) error {
	in, err := a.NewLineInput()
	if err != nil {
		return fmt.Errorf("start line editor: %w", err)
	}
	defer in.Close()

	r := &repl{
		app:      a,
		in:       in,
		threads:  thread.NewManager().WithClock(a.now),
		loggedIn: a.Session.LoggedIn(),
	}

	if r.loggedIn {
		if history, err := a.Backend.History(ctx); err != nil {
			fmt.Fprintln(a.Err, ErrorStyle.Render(requestError("history", "load", err).Error()))
		} else {
			r.threads.Load(history)
			r.threads.NewChat()
		}
	}

	if !a.Quiet {
		mode := "guest"
		if r.loggedIn {
			mode = "signed in"
		}
		fmt.Fprintln(a.Out, TitleStyle.Render("Chat CPE")+" "+MutedStyle.Render("("+mode+", /help for commands)"))
	}

	for {
		line, err := in.Prompt("chatcpe> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(a.Out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		in.AppendHistory(line)

		if strings.HasPrefix(line, "/") {
			if !r.command(line) {
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			return nil
		}
		r.send(ctx, line)
	}
}

func (r *repl) send(ctx context.Context, text string) {
	a := r.app
	t, err := r.threads.Send(ctx, a.Backend, text)
	if errors.Is(err, thread.ErrEmptyMessage) {
		return
	}
	if err != nil {
		slog.Warn("send failed", "error", err)
		fmt.Fprintln(a.Err, ErrorStyle.Render(requestError("send", "", err).Error()))
	}
	if last := t.LastMessage(); last != nil {
		fmt.Fprintln(a.Out, botStyle.Render("Chat CPE"))
		fmt.Fprintln(a.Out, a.renderAnswer(last.Text, false))
		fmt.Fprintln(a.Out)
	}
}

// command runs a slash command and reports whether the REPL goes on.
func (r *repl) command(line string) bool {
	a := r.app
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return false

	case "/help", "/?":
		fmt.Fprintln(a.Out, replHelp)

	case "/new":
		if !r.loggedIn {
			r.threads.Clear()
		}
		r.threads.NewChat()
		a.info("%s", MutedStyle.Render("New chat"))

	case "/threads", "/list":
		r.listThreads()

	case "/open":
		t, err := findThread(r.threads, arg)
		if err == nil {
			err = r.threads.SelectThread(t.ID)
		}
		if err != nil {
			fmt.Fprintln(a.Err, ErrorStyle.Render(err.Error()))
			return true
		}
		a.printThread(t, false)

	case "/delete":
		r.deleteActive()

	case "/export":
		r.exportActive(arg)

	default:
		fmt.Fprintln(a.Err, ErrorStyle.Render("Unknown command "+fields[0]+", try /help"))
	}
	return true
}

func (r *repl) listThreads() {
	a := r.app
	active := r.threads.ActiveID()
	threads := r.threads.Threads()
	if len(threads) == 0 {
		a.info("No threads yet")
		return
	}
	for i, t := range threads {
		marker := "  "
		if t.ID == active {
			marker = AccentStyle.Render("> ")
		}
		fmt.Fprintf(a.Out, "%s%d. %s %s\n", marker, i+1, util.FitWidth(t.Title, 40),
			MutedStyle.Render(fmt.Sprintf("(%d messages)", len(t.Messages))))
	}
}

func (r *repl) deleteActive() {
	a := r.app
	id := r.threads.ActiveID()
	if id == "" {
		a.info("No thread selected")
		return
	}
	remote, err := r.threads.DeleteThread(id)
	if err != nil {
		fmt.Fprintln(a.Err, ErrorStyle.Render(err.Error()))
		return
	}
	if remote && r.loggedIn {
		if _, err := a.Backend.DeleteThread(context.Background(), id); err != nil {
			fmt.Fprintln(a.Err, ErrorStyle.Render(requestError("delete", "", err).Error()))
			return
		}
	}
	a.info("Thread deleted")
}

func (r *repl) exportActive(format string) {
	a := r.app
	t, ok := r.threads.Active()
	if !ok || len(t.Messages) == 0 {
		a.info("Nothing to export yet")
		return
	}
	opts := export.DefaultOptions()
	opts.Now = a.now
	exp, err := export.ForFormat(format, opts)
	if err == nil {
		var path string
		path, err = export.ToFile(t, exp, opts)
		if err == nil {
			a.info("Saved %s", path)
			return
		}
	}
	fmt.Fprintln(a.Err, ErrorStyle.Render("Export failed: "+err.Error()))
}
