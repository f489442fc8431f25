// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
)

// Backend is every REST operation the subcommands use. *api.Client
// implements it.
type Backend interface {
	components.AuthBackend
	components.ContentBackend
	thread.Sender

	History(ctx context.Context) ([]api.HistoryThread, error)
	DeleteHistory(ctx context.Context) (*api.MessageResponse, error)
	DeleteThread(ctx context.Context, threadID string) (*api.MessageResponse, error)
}

// App carries the dependencies of a command run.
type App struct {
	Config  *config.Config
	Backend Backend
	Session *session.Session

	Out io.Writer
	Err io.Writer
	In  io.Reader

	// Interactive is true when stdin is a terminal.
	Interactive bool
	// Color enables ANSI output (glamour, chroma).
	Color bool
	Quiet bool

	ReadPassword func(prompt string) (string, error)
	OpenURL      func(url string) error
	NewLineInput func() (LineInput, error)
	Now          func() time.Time
}

// NewApp returns an App wired to the process's standard streams.
func NewApp(cfg *config.Config, backend Backend, sess *session.Session) *App {
	return &App{
		Config:       cfg,
		Backend:      backend,
		Session:      sess,
		Out:          os.Stdout,
		Err:          os.Stderr,
		In:           os.Stdin,
		Interactive:  IsTTY(),
		Color:        IsStdoutTTY() && os.Getenv("NO_COLOR") == "",
		ReadPassword: ReadPassword,
		OpenURL:      components.OpenURL,
		NewLineInput: newLinerInput,
		Now:          time.Now,
	}
}

// Run executes cmd. CmdTUI is handled by main and is an error here.
func (a *App) Run(ctx context.Context, cmd Command, args Args) error {
	switch cmd {
	case CmdLogin:
		return a.Login(ctx, args.Raw)
	case CmdRegister:
		return a.Register(ctx, args.Raw)
	case CmdLogout:
		return a.Logout(ctx)
	case CmdProfile:
		return a.Profile(ctx, args.Raw)
	case CmdFAQ:
		return a.FAQ(ctx, args.Raw)
	case CmdDocs:
		return a.Docs(ctx, args.Raw)
	case CmdHistory:
		return a.History(ctx, args.Raw)
	case CmdAsk:
		return a.Ask(ctx, args.Raw)
	case CmdChat:
		return a.Chat(ctx, args.Raw)
	case CmdExport:
		return a.Export(ctx, args.Raw)
	case CmdConfig:
		return a.ConfigCmd(args.Raw)
	case CmdVersion:
		fmt.Fprintln(a.Out, VersionString())
		return nil
	case CmdHelp:
		Usage(a.Out)
		if args.Unknown != "" {
			return usageErrorf("unknown command %q", args.Unknown)
		}
		return nil
	}
	return usageErrorf("command %s cannot run here", cmd)
}

// =============================================================================
// HELPERS
// =============================================================================

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) requireLogin() error {
	if a.Session == nil || !a.Session.LoggedIn() {
		return ErrNotSignedIn
	}
	return nil
}

// prompt asks for a value on stderr and reads one line from In.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.Err, label)
	line, err := readLine(a.In)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// secret reads a password with ReadPassword on a terminal and falls back
// to a plain line otherwise.
func (a *App) secret(label string) (string, error) {
	if a.Interactive && a.ReadPassword != nil {
		return a.ReadPassword(label)
	}
	fmt.Fprint(a.Err, label)
	line, err := readLine(a.In)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (a *App) info(format string, args ...any) {
	if a.Quiet {
		return
	}
	fmt.Fprintf(a.Out, format+"\n", args...)
}
