// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
)

// ConfigCmd shows and edits the configuration file.
func (a *App) ConfigCmd(raw []string) error {
	p := NewArgParser(raw)

	switch p.Subcommand() {
	case "", "show":
		data, err := a.Config.MarshalTOML()
		if err != nil {
			return err
		}
		fmt.Fprint(a.Out, highlightTOML(string(data), a.Color))
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return usageErrorf("usage: chatcpe config get KEY")
		}
		v, err := a.Config.Get(key)
		if err != nil {
			return usageErrorf("%v (see 'chatcpe config keys')", err)
		}
		fmt.Fprintln(a.Out, v)
		return nil

	case "set":
		key, value := p.Positional(1), JoinPositionalArgs(p, 2)
		if key == "" || p.NArg() < 3 {
			return usageErrorf("usage: chatcpe config set KEY VALUE")
		}
		if err := a.Config.Set(key, value); err != nil {
			return err
		}
		if err := config.Save(a.Config); err != nil {
			return &CommandError{Command: "config", Action: "set", Reason: err.Error(), Err: err}
		}
		a.info("%s = %s", key, value)
		return nil

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.Out, path)
		return nil

	case "keys":
		fmt.Fprintln(a.Out, strings.Join(config.Keys(), "\n"))
		return nil
	}
	return usageErrorf("unknown config subcommand %q", p.Subcommand())
}

// highlightTOML colors src for the terminal. Plain text is returned when
// color is off or highlighting fails.
func highlightTOML(src string, color bool) string {
	if !color {
		return src
	}
	lexer := lexers.Get("toml")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, it); err != nil {
		return src
	}
	return buf.String()
}
