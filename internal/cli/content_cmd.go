// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/util"
)

// =============================================================================
// FAQ
// =============================================================================

// FAQ prints the active FAQs (all of them with --all), answers as plain
// text. --json prints the raw items.
func (a *App) FAQ(ctx context.Context, raw []string) error {
	p := NewArgParser(raw, "all", "json")

	active := api.Bool(true)
	if p.BoolFlag("all") {
		active = nil
	}
	faqs, err := a.Backend.FAQs(ctx, active)
	if err != nil {
		return requestError("faq", "", err)
	}
	sort.SliceStable(faqs, func(i, j int) bool {
		return faqs[i].DisplayOrder < faqs[j].DisplayOrder
	})

	if p.BoolFlag("json") {
		return a.printJSON(faqs)
	}
	if len(faqs) == 0 {
		a.info("No FAQs available")
		return nil
	}

	filter := strings.ToLower(JoinPositionalArgs(p, 0))
	width := min(TerminalWidth(), 100)
	shown := 0
	for _, f := range faqs {
		answer := util.HTMLToText(f.Answer)
		if filter != "" && !strings.Contains(strings.ToLower(f.Question+" "+answer), filter) {
			continue
		}
		shown++
		fmt.Fprintln(a.Out, SectionStyle.Render(fmt.Sprintf("%d. %s", shown, f.Question)))
		if f.Category != "" {
			fmt.Fprintln(a.Out, MutedStyle.Render("   ["+f.Category+"]"))
		}
		for _, line := range strings.Split(wrapText(answer, width-3), "\n") {
			fmt.Fprintln(a.Out, "   "+line)
		}
		fmt.Fprintln(a.Out)
	}
	if shown == 0 {
		a.info("No FAQs match %q", filter)
	}
	return nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Docs lists the university forms, or opens one by code with
// "open CODE".
func (a *App) Docs(ctx context.Context, raw []string) error {
	p := NewArgParser(raw, "json")

	forms, err := a.Backend.Forms(ctx)
	if err != nil {
		return requestError("docs", "", err)
	}

	switch p.Subcommand() {
	case "":
		if p.BoolFlag("json") {
			return a.printJSON(forms)
		}
		if len(forms) == 0 {
			a.info("No documents available")
			return nil
		}
		codeWidth := 0
		for _, f := range forms {
			codeWidth = max(codeWidth, util.TextWidth(f.Code))
		}
		for _, f := range forms {
			fmt.Fprintf(a.Out, "%s  %s\n", AccentStyle.Render(util.PadWidth(f.Code, codeWidth)), f.Title)
			if f.URL != "" {
				fmt.Fprintf(a.Out, "%s  %s\n", strings.Repeat(" ", codeWidth), MutedStyle.Render(f.URL))
			}
		}
		return nil

	case "open":
		code := p.Positional(1)
		if code == "" {
			return usageErrorf("usage: chatcpe docs open CODE")
		}
		for _, f := range forms {
			if strings.EqualFold(f.Code, code) {
				if err := a.OpenURL(f.URL); err != nil {
					return &CommandError{Command: "docs", Action: "open", Reason: err.Error(), Err: err}
				}
				a.info("Opened %s", f.URL)
				return nil
			}
		}
		return &CommandError{Command: "docs", Action: "open", Reason: fmt.Sprintf("no form with code %q", code)}
	}
	return usageErrorf("unknown docs subcommand %q", p.Subcommand())
}

// wrapText breaks text on spaces so no line exceeds width cells.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case util.TextWidth(line)+1+util.TextWidth(word) > width:
				out = append(out, line)
				line = word
			default:
				line += " " + word
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
