// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors an *APIError unwraps to, chosen by status code.
var (
	// ErrBadRequest covers 400 and 422: the backend rejected the input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the account may not do this (e.g. unverified email).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the endpoint or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer indicates a 5xx reply.
	ErrServer = errors.New("server error")
)

// APIError is a non-2xx reply. Body is the decoded JSON payload, or
// {"detail": <status text>} when the reply had no JSON body. Detail is
// the flattened "detail" field and may be empty.
type APIError struct {
	Status int
	Detail string
	Body   map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, statusText(e.Status))
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Detail)
}

// Unwrap maps the status to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrBadRequest
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Status >= 500:
		return ErrServer
	}
	return nil
}

// newAPIError builds the error for status from a raw body, which may be
// nil when the reply was not JSON.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	if len(body) > 0 {
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err == nil {
			e.Body = payload
		}
	}
	if e.Body == nil {
		e.Body = map[string]any{"detail": statusText(status)}
	}
	e.Detail = detailText(e.Body["detail"])
	return e
}

// detailText flattens a FastAPI detail: a plain string, or a list of
// validation entries with "msg" fields.
func detailText(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case []any:
		var msgs []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok && msg != "" {
					msgs = append(msgs, msg)
				}
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func statusText(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("HTTP %d", status)
}

// Detail returns the backend's message for err verbatim, or fallback when
// err is not an API error or carries no detail.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
