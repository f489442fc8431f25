// chatcpe - terminal client for the CPE chat assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/cli"
	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
	"github.com/kmutt-cpe/chatcpe-tui/internal/export"
	"github.com/kmutt-cpe/chatcpe-tui/internal/logging"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/storage"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/chat"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/home"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires the stack and returns the exit code. It exists so deferred
// cleanup runs before os.Exit.
func run(argv []string) int {
	cmd, args := cli.Parse(argv)
	switch cmd {
	case cli.CmdVersion:
		fmt.Println(cli.VersionString())
		return cli.ExitSuccess
	case cli.CmdHelp:
		if args.Unknown == "" {
			cli.Usage(os.Stdout)
			return cli.ExitSuccess
		}
	}

	// ==========================================================================
	// CONFIG AND LOGGING
	// ==========================================================================
	cfg, err := config.Load()
	if err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitConfigError
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = strings.TrimRight(args.APIURL, "/")
		if err := cfg.Validate(); err != nil {
			cli.PrintError(os.Stderr, err)
			return cli.ExitConfigError
		}
	}
	config.SetGlobal(cfg)

	logCloser, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logCloser = io.NopCloser(nil)
		slog.SetDefault(logging.New(io.Discard, cfg.Log.Level))
	}
	defer logCloser.Close()
	slog.Info("starting", "version", Version, "command", cmd.String(), "storage", cfg.Storage.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ==========================================================================
	// SESSION AND API CLIENT
	// ==========================================================================
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		cli.PrintError(os.Stderr, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err))
		return cli.ExitConfigError
	}
	defer store.Close()

	sess := session.New(store)
	if err := sess.Load(ctx); err != nil {
		slog.Warn("failed to load session", "error", err)
	}
	if dropped, err := sess.DropIfExpired(ctx, time.Now()); err != nil {
		slog.Warn("failed to clear expired session", "error", err)
	} else if dropped && cmd != cli.CmdTUI && !args.Quiet {
		fmt.Fprintln(os.Stderr, "Your session has expired, please sign in again.")
	}

	client := api.New(cfg.API.BaseURL, sess).
		WithTimeout(cfg.API.Timeout()).
		WithUserAgent("chatcpe/" + Version)
	if cfg.API.RateLimit > 0 {
		client = client.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst)
	}

	// ==========================================================================
	// DISPATCH
	// ==========================================================================
	if cmd != cli.CmdTUI {
		cli.SetColor(!args.NoColor)
		app := cli.NewApp(cfg, client, sess)
		app.Quiet = args.Quiet
		app.Color = app.Color && !args.NoColor
		err := app.Run(ctx, cmd, args)
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	if err := runTUI(ctx, cfg, client, sess, args.NoColor); err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitGeneralError
	}
	return cli.ExitSuccess
}

// runTUI starts the full-screen program and blocks until it exits.
func runTUI(ctx context.Context, cfg *config.Config, client *api.Client, sess *session.Session, noColor bool) error {
	theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	if noColor {
		styles.DisableColor()
		theme.ColorProfile = termenv.Ascii
	}

	var watch <-chan struct{}
	if cfg.UI.WatchSession {
		ch, err := sess.Watch(ctx)
		if err != nil {
			slog.Warn("session watch unavailable", "error", err)
		}
		watch = ch
	}

	md := components.NewMarkdown(cfg.UI.Markdown,
		components.MarkdownStyle(theme.IsDark, theme.ColorProfile != termenv.Ascii))

	root := home.New(sess, chat.Options{
		Theme:    theme,
		Backend:  client,
		Markdown: md,
		Export:   exportMarkdown,
		OpenURL:  components.OpenURL,
	}, watch)

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	if _, err := tea.NewProgram(root, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// exportMarkdown writes a thread to the default transcripts directory.
func exportMarkdown(t thread.Thread) (string, error) {
	opts := export.DefaultOptions()
	return export.ToFile(t, export.NewMarkdownExporter(opts), opts)
}
