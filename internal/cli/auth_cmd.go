// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
)

// =============================================================================
// LOGIN
// =============================================================================

// Login signs in with --email and --password, prompting for whatever is
// missing. On failure the session is left untouched.
func (a *App) Login(ctx context.Context, raw []string) error {
	p := NewArgParser(raw)
	email := strings.TrimSpace(p.Flag("email", "e"))
	password := p.Flag("password", "p")

	var err error
	if email == "" && a.Interactive {
		if email, err = a.prompt("Email: "); err != nil {
			return err
		}
	}
	if password == "" && email != "" {
		if password, err = a.secret("Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return usageErrorf("Please enter email and password")
	}

	res, err := a.Backend.Login(ctx, email, password)
	if err != nil {
		slog.Info("login failed", "error", err)
		return requestError("login", "", err)
	}
	userID := res.UserID.String()
	if err := a.Session.SignIn(ctx, res.AccessToken, userID); err != nil {
		return &CommandError{Command: "login", Reason: "could not save session", Err: err}
	}
	a.info("%s", SuccessStyle.Render("Signed in as "+email))
	return nil
}

// =============================================================================
// REGISTER
// =============================================================================

// Register creates an account. A token reply signs in immediately; a
// message reply (email verification) is printed.
func (a *App) Register(ctx context.Context, raw []string) error {
	p := NewArgParser(raw)
	req := api.RegisterRequest{
		Name:            strings.TrimSpace(p.Flag("name", "n")),
		Email:           strings.TrimSpace(p.Flag("email", "e")),
		Password:        p.Flag("password", "p"),
		ConfirmPassword: p.Flag("confirm"),
	}

	var err error
	if a.Interactive {
		if req.Name == "" {
			if req.Name, err = a.prompt("Name: "); err != nil {
				return err
			}
		}
		if req.Email == "" {
			if req.Email, err = a.prompt("Email: "); err != nil {
				return err
			}
		}
		if req.Password == "" {
			if req.Password, err = a.secret("Password: "); err != nil {
				return err
			}
		}
		if req.ConfirmPassword == "" {
			if req.ConfirmPassword, err = a.secret("Confirm password: "); err != nil {
				return err
			}
		}
	} else if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}

	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return usageErrorf("Please fill in all fields")
	}
	if req.Password != req.ConfirmPassword {
		return usageErrorf("Passwords do not match")
	}

	res, err := a.Backend.Register(ctx, req)
	if err != nil {
		return requestError("register", "", err)
	}
	if !res.SignedIn() {
		msg := res.Message
		if msg == "" {
			msg = "Registration successful. Please sign in."
		}
		a.info("%s", msg)
		return nil
	}
	if err := a.Session.SignIn(ctx, res.AccessToken, res.UserID.String()); err != nil {
		return &CommandError{Command: "register", Reason: "could not save session", Err: err}
	}
	a.info("%s", SuccessStyle.Render("Account created, signed in as "+req.Email))
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// Logout tells the backend and clears the stored session. A failed
// request still clears the session.
func (a *App) Logout(ctx context.Context) error {
	if !a.Session.LoggedIn() {
		a.info("Not signed in")
		return nil
	}
	if _, err := a.Backend.Logout(ctx); err != nil {
		slog.Warn("logout request failed", "error", err)
	}
	if err := a.Session.SignOut(ctx); err != nil {
		return &CommandError{Command: "logout", Reason: "could not clear session", Err: err}
	}
	a.info("Signed out")
	return nil
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile shows the account, or renames it with "set-name NAME".
func (a *App) Profile(ctx context.Context, raw []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	p := NewArgParser(raw, "json")

	switch p.Subcommand() {
	case "", "show":
		prof, err := a.Backend.Profile(ctx)
		if err != nil {
			return requestError("profile", "show", err)
		}
		if p.BoolFlag("json") {
			return a.printJSON(prof)
		}
		a.printProfile(prof)
		return nil

	case "set-name", "rename":
		name := strings.TrimSpace(JoinPositionalArgs(p, 1))
		if name == "" {
			return usageErrorf("Name cannot be empty")
		}
		res, err := a.Backend.UpdateProfile(ctx, name)
		if err != nil {
			return requestError("profile", "set-name", err)
		}
		msg := res.Message
		if msg == "" {
			msg = "Profile updated"
		}
		a.info("%s", SuccessStyle.Render(msg))
		return nil
	}
	return usageErrorf("unknown profile subcommand %q", p.Subcommand())
}

func (a *App) printProfile(prof *api.Profile) {
	fmt.Fprintln(a.Out, TitleStyle.Render("Profile"))
	fmt.Fprintln(a.Out, formatKeyValue("Name", prof.Name))
	fmt.Fprintln(a.Out, formatKeyValue("Email", prof.Email))
	if prof.Role != "" {
		fmt.Fprintln(a.Out, formatKeyValue("Role", prof.Role))
	}
	if claims, err := session.ParseClaims(a.Session.Token()); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Fprintln(a.Out, formatKeyValue("Expires", claims.ExpiresAt.Local().Format("2006-01-02 15:04")))
	}
}
