// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// ASK
// =============================================================================

// Ask sends one question and prints the answer. The question comes from
// the arguments, or from stdin when none are given and stdin is not a
// terminal. --thread continues an existing thread; --raw skips Markdown
// rendering.
func (a *App) Ask(ctx context.Context, raw []string) error {
	p := NewArgParser(raw, "raw", "json")

	question := JoinPositionalArgs(p, 0)
	if (question == "" || question == "-") && !a.Interactive {
		b, err := io.ReadAll(a.In)
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}
		question = string(b)
	}
	question = util.NormalizeInput(question)
	if question == "" {
		return usageErrorf("usage: chatcpe ask \"question\"")
	}

	threadID := p.Flag("thread", "t")
	if threadID == "" {
		threadID = thread.NewTempID()
	}

	res, err := a.Backend.SendMessage(ctx, question, threadID)
	if err != nil {
		return requestError("ask", "", err)
	}
	answer := res.Answer
	if answer == "" {
		answer = thread.EmptyAnswer
	}

	if p.BoolFlag("json") {
		return a.printJSON(res)
	}
	fmt.Fprintln(a.Out, a.renderAnswer(answer, p.BoolFlag("raw")))
	if id := res.ThreadID.String(); id != "" && a.Session.LoggedIn() && !a.Quiet {
		fmt.Fprintln(a.Err, MutedStyle.Render("thread "+id))
	}
	return nil
}

// renderAnswer formats a bot answer with glamour when color output is on.
func (a *App) renderAnswer(text string, raw bool) string {
	if raw || !a.Color || !a.Config.UI.Markdown {
		return text
	}
	md := components.NewMarkdown(true, components.MarkdownStyle(a.Config.UI.Theme != "light", true))
	return strings.TrimRight(md.Render(text, min(TerminalWidth(), 100)), "\n")
}

// =============================================================================
// HISTORY
// =============================================================================

// History lists, prints, deletes or clears the saved threads.
func (a *App) History(ctx context.Context, raw []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	p := NewArgParser(raw, "json", "raw", "yes", "y")

	switch p.Subcommand() {
	case "", "list", "ls":
		m, err := a.loadThreads(ctx)
		if err != nil {
			return err
		}
		if p.BoolFlag("json") {
			return a.printJSON(m.Threads())
		}
		a.printThreadList(m)
		return nil

	case "show", "cat":
		m, err := a.loadThreads(ctx)
		if err != nil {
			return err
		}
		t, err := findThread(m, p.Positional(1))
		if err != nil {
			return err
		}
		if p.BoolFlag("json") {
			return a.printJSON(t)
		}
		a.printThread(t, p.BoolFlag("raw"))
		return nil

	case "delete", "rm":
		id := p.Positional(1)
		if id == "" {
			return usageErrorf("usage: chatcpe history delete ID")
		}
		if thread.IsTemporary(id) {
			return usageErrorf("%s was never saved", id)
		}
		if _, err := a.Backend.DeleteThread(ctx, id); err != nil {
			return requestError("history", "delete", err)
		}
		a.info("Deleted thread %s", id)
		return nil

	case "clear":
		ok, err := a.confirm("Delete all chat history?", p.BoolFlag("yes", "y"))
		if err != nil || !ok {
			return err
		}
		if _, err := a.Backend.DeleteHistory(ctx); err != nil {
			return requestError("history", "clear", err)
		}
		a.info("Chat history deleted")
		return nil
	}
	return usageErrorf("unknown history subcommand %q", p.Subcommand())
}

func (a *App) loadThreads(ctx context.Context) (*thread.Manager, error) {
	history, err := a.Backend.History(ctx)
	if err != nil {
		return nil, requestError("history", "load", err)
	}
	m := thread.NewManager().WithClock(a.now)
	m.Load(history)
	return m, nil
}

// findThread resolves ref as a thread id or a 1-based list position.
func findThread(m *thread.Manager, ref string) (thread.Thread, error) {
	if ref == "" {
		return thread.Thread{}, usageErrorf("a thread id or number is required")
	}
	if h, ok := m.Lookup(ref); ok {
		t, _ := m.Get(h)
		return t, nil
	}
	var n int
	if _, err := fmt.Sscanf(ref, "%d", &n); err == nil && fmt.Sprint(n) == ref {
		threads := m.Threads()
		if n >= 1 && n <= len(threads) {
			return threads[n-1], nil
		}
	}
	return thread.Thread{}, &CommandError{Command: "history", Reason: fmt.Sprintf("no thread %q", ref), Err: thread.ErrUnknownThread}
}

func (a *App) printThreadList(m *thread.Manager) {
	threads := m.Threads()
	if len(threads) == 0 {
		a.info("No chat history")
		return
	}
	width := util.TextWidth(fmt.Sprint(len(threads)))
	for i, t := range threads {
		num := util.PadWidth(fmt.Sprint(i+1), width)
		fmt.Fprintf(a.Out, "%s  %s  %s\n",
			MutedStyle.Render(num),
			ValueStyle.Render(util.FitWidth(t.Title, 40)),
			MutedStyle.Render(fmt.Sprintf("%s · %d messages · %s", t.ID, len(t.Messages), t.UpdatedAt.Local().Format("2006-01-02 15:04"))))
	}
}

func (a *App) printThread(t thread.Thread, raw bool) {
	fmt.Fprintln(a.Out, TitleStyle.Render(t.Title))
	for _, msg := range t.Messages {
		fmt.Fprintln(a.Out)
		if msg.IsUser() {
			fmt.Fprintln(a.Out, youStyle.Render("You")+"  "+MutedStyle.Render(msg.CreatedAt.Local().Format("15:04")))
			fmt.Fprintln(a.Out, msg.Text)
			continue
		}
		fmt.Fprintln(a.Out, botStyle.Render("Chat CPE"))
		fmt.Fprintln(a.Out, a.renderAnswer(msg.Text, raw))
	}
}

// confirm asks a yes/no question. yes skips the prompt; without a
// terminal the flag is required.
func (a *App) confirm(question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.Interactive {
		return false, usageErrorf("refusing to continue without --yes when stdin is not a terminal")
	}
	answer, err := a.prompt(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	a.info("Cancelled")
	return false, nil
}
