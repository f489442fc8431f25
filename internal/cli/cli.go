// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the subcommand to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdProfile
	CmdFAQ
	CmdDocs
	CmdHistory
	CmdAsk
	CmdChat
	CmdExport
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:      "tui",
	CmdLogin:    "login",
	CmdRegister: "register",
	CmdLogout:   "logout",
	CmdProfile:  "profile",
	CmdFAQ:      "faq",
	CmdDocs:     "docs",
	CmdHistory:  "history",
	CmdAsk:      "ask",
	CmdChat:     "chat",
	CmdExport:   "export",
	CmdConfig:   "config",
	CmdVersion:  "version",
	CmdHelp:     "help",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Args holds the global flags and the arguments left for the command.
type Args struct {
	// Global flags
	APIURL  string
	NoColor bool
	Quiet   bool

	// Raw is everything after the command name.
	Raw []string

	// Unknown is set when the command name was not recognized.
	Unknown string
}

const usageText = `chatcpe - terminal client for the CPE chat assistant

Usage:
  chatcpe                           Start the full-screen TUI (default)
  chatcpe login [--email E]         Sign in (password is prompted)
  chatcpe register                  Create an account
  chatcpe logout                    Sign out
  chatcpe profile                   Show the signed-in account
  chatcpe profile set-name NAME     Change the display name
  chatcpe faq [--all] [--json]      List frequently asked questions
  chatcpe docs [--json]             List university forms
  chatcpe docs open CODE            Open a form in the browser
  chatcpe history [--json]          List saved chat threads
  chatcpe history show ID           Print one thread
  chatcpe history delete ID         Delete one thread
  chatcpe history clear [--yes]     Delete all chat history
  chatcpe ask "question"            Ask one question
  chatcpe chat                      Interactive chat with line editing
  chatcpe export [ID] [--format md|json] [--out DIR]
  chatcpe export list [--out DIR]   List exported transcripts
  chatcpe config show               Print the configuration
  chatcpe config get KEY            Print one setting
  chatcpe config set KEY VALUE      Change one setting
  chatcpe config path|keys          Config file location, settable keys
  chatcpe version                   Print version information

Global flags:
  --api-url URL    Override the backend base URL
  --no-color       Disable colored output
  -q, --quiet      Less output

Environment:
  CHATCPE_HOME, CHATCPE_API_URL, CHATCPE_STORAGE, CHATCPE_REDIS_URL,
  CHATCPE_LOG_LEVEL and the other CHATCPE_* variables override the
  config file. A .env file in the working directory is read first.
`

// Usage writes the help text.
func Usage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// VersionString is the one-line version banner.
func VersionString() string {
	return fmt.Sprintf("chatcpe %s (commit %s, built %s, %s/%s)",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Parse picks the command from argv (without the program name). Global
// flags are accepted before the command.
func Parse(argv []string) (Command, Args) {
	var args Args
	i := 0
parse:
	for ; i < len(argv); i++ {
		a := argv[i]
		switch {
		case a == "--no-color":
			args.NoColor = true
		case a == "-q" || a == "--quiet":
			args.Quiet = true
		case a == "--api-url" && i+1 < len(argv):
			args.APIURL = argv[i+1]
			i++
		case strings.HasPrefix(a, "--api-url="):
			args.APIURL = strings.TrimPrefix(a, "--api-url=")
		case a == "-h" || a == "--help":
			return CmdHelp, args
		case a == "-v" || a == "--version":
			return CmdVersion, args
		default:
			break parse
		}
	}

	if i >= len(argv) {
		return CmdTUI, args
	}

	name := strings.ToLower(argv[i])
	args.Raw = argv[i+1:]

	switch name {
	case "tui":
		return CmdTUI, args
	case "login", "signin":
		return CmdLogin, args
	case "register", "signup":
		return CmdRegister, args
	case "logout", "signout":
		return CmdLogout, args
	case "profile", "whoami":
		return CmdProfile, args
	case "faq", "faqs":
		return CmdFAQ, args
	case "docs", "forms", "documents":
		return CmdDocs, args
	case "history", "threads":
		return CmdHistory, args
	case "ask", "a":
		return CmdAsk, args
	case "chat", "c":
		return CmdChat, args
	case "export":
		return CmdExport, args
	case "config", "cfg":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	}
	args.Unknown = argv[i]
	return CmdHelp, args
}
