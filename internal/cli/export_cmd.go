// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/kmutt-cpe/chatcpe-tui/internal/export"
)

// Export writes a saved thread to a transcript file. Without an id the
// most recent thread is exported. "export list" shows what was written.
func (a *App) Export(ctx context.Context, raw []string) error {
	p := NewArgParser(raw, "json")

	opts := export.DefaultOptions()
	opts.OutputDir = p.Flag("out", "o")
	opts.Now = a.now

	if p.Subcommand() == "list" {
		return a.listExports(opts.OutputDir, p.BoolFlag("json"))
	}

	if err := a.requireLogin(); err != nil {
		return err
	}
	exp, err := export.ForFormat(p.Flag("format", "f"), opts)
	if err != nil {
		return usageErrorf("%v", err)
	}

	m, err := a.loadThreads(ctx)
	if err != nil {
		return err
	}
	ref := p.Positional(0)
	if ref == "" {
		if m.Len() == 0 {
			return &CommandError{Command: "export", Reason: "no chat history to export"}
		}
		ref = "1"
	}
	t, err := findThread(m, ref)
	if err != nil {
		return err
	}

	path, err := export.ToFile(t, exp, opts)
	if err != nil {
		return &CommandError{Command: "export", Reason: err.Error(), Err: err}
	}
	fmt.Fprintln(a.Out, path)
	return nil
}

func (a *App) listExports(dir string, asJSON bool) error {
	if dir == "" {
		d, err := export.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}
	entries, err := export.List(dir)
	if err != nil {
		return &CommandError{Command: "export", Action: "list", Reason: err.Error(), Err: err}
	}
	if asJSON {
		return a.printJSON(entries)
	}
	if len(entries) == 0 {
		a.info("No transcripts in %s", dir)
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.Out, "%s  %s  %s\n",
			MutedStyle.Render(e.ModTime.Local().Format("2006-01-02 15:04")),
			MutedStyle.Render(fmt.Sprintf("%8s", humanize.Bytes(uint64(e.Size)))),
			e.Name)
	}
	return nil
}
