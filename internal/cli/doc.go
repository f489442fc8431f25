// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the one-shot subcommands of chatcpe.
//
// Every REST operation the TUI performs is also reachable from the shell:
//
//	chatcpe login --email a@b.c       sign in (password prompted)
//	chatcpe register                  create an account
//	chatcpe logout                    sign out
//	chatcpe profile [set-name NAME]   show or rename the account
//	chatcpe faq [--all]               list FAQs
//	chatcpe docs [open CODE]          list or open university forms
//	chatcpe history [show|delete|clear]
//	chatcpe ask "question"            one question, one answer
//	chatcpe chat                      line REPL with history
//	chatcpe export [ID] [--format]    write a transcript
//	chatcpe config [show|get|set|path|keys]
//
// Commands return errors instead of exiting; main maps them to exit codes
// with ExitCode.
package cli
