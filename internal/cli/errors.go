// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError covers every failed request and local error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a bad configuration file or setting
	ExitConfigError = 3
)

// ErrNotSignedIn is returned by commands that need a session.
var ErrNotSignedIn = errors.New("not signed in, run 'chatcpe login' first")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command. Reason is what the user sees; for
// backend failures it is the backend's detail text verbatim.
type CommandError struct {
	Command string
	Action  string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	what := e.Command
	if e.Action != "" {
		what += " " + e.Action
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s failed: %s", what, e.Reason)
	}
	return fmt.Sprintf("%s failed: %v", what, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is a malformed invocation.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(format string, a ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, a...)}
}

// requestError wraps a backend failure. The backend's detail wins over
// the transport error text.
func requestError(command, action string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  api.Detail(err, err.Error()),
		Err:     err,
	}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsageError
	}
	var verrs config.ValidateErrors
	if errors.As(err, &verrs) {
		return ExitConfigError
	}
	return ExitGeneralError
}

// PrintError writes err in the standard format.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), err.Error())
	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, MutedStyle.Render("Run 'chatcpe help' for usage."))
	}
}
