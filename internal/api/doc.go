// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the chat assistant backend.
//
// Every request is JSON and carries "Authorization: Bearer <token>" when
// the TokenSource has a token. Non-2xx replies become *APIError, which
// keeps the decoded body and unwraps to a status sentinel such as
// ErrUnauthorized.
//
// # Endpoints
//
//	Auth:      Login, Register, Profile, UpdateProfile, Logout
//	FAQ:       FAQs
//	Chat:      SendMessage, History, DeleteHistory, DeleteThread
//	Documents: Forms
//
// # Usage
//
//	client := api.New(cfg.API.BaseURL, sess).WithTimeout(cfg.API.Timeout())
//	faqs, err := client.FAQs(ctx, api.Bool(true))
//	if err != nil {
//	    fmt.Println(api.Detail(err, "Failed to load FAQs"))
//	}
package api
