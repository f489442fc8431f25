// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. Check SignedIn on the reply: when email
// verification is required only Message is set.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the display name.
func (c *Client) UpdateProfile(ctx context.Context, name string) (*UpdateProfileResponse, error) {
	var out UpdateProfileResponse
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the token on the server.
func (c *Client) Logout(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// FAQ
// =============================================================================

// FAQs lists FAQ entries. A nil active returns all of them.
func (c *Client) FAQs(ctx context.Context, active *bool) ([]FAQ, error) {
	path := "/faq/"
	if active != nil {
		path += "?active=" + strconv.FormatBool(*active)
	}
	var out []FAQ
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// =============================================================================
// CHAT
// =============================================================================

// SendMessage posts a user message to threadID and returns the answer.
func (c *Client) SendMessage(ctx context.Context, message, threadID string) (*SendResponse, error) {
	var out SendResponse
	req := SendRequest{Message: message, ThreadID: threadID}
	if err := c.do(ctx, http.MethodPost, "/chat/send", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the signed-in user's threads, newest first.
func (c *Client) History(ctx context.Context) ([]HistoryThread, error) {
	var out []HistoryThread
	if err := c.do(ctx, http.MethodGet, "/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteHistory removes all of the user's threads.
func (c *Client) DeleteHistory(ctx context.Context) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, http.MethodDelete, "/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteThread removes one thread. Backends without per-thread deletion
// answer 404 or 405; callers treat this as best effort.
func (c *Client) DeleteThread(ctx context.Context, threadID string) (*MessageResponse, error) {
	var out MessageResponse
	path := "/chat/history/" + url.PathEscape(threadID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Forms lists downloadable forms.
func (c *Client) Forms(ctx context.Context) ([]Form, error) {
	var out []Form
	if err := c.do(ctx, http.MethodGet, "/documents/forms", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
