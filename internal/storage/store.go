// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Close releases resources.
	Close() error
}

// Watcher is implemented by stores that can report changes. The returned
// channel receives a value after one or more writes and is closed when
// ctx is done. Signals are coalesced; receivers re-read what they need.
type Watcher interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// StoreError wraps a backend failure with the operation and key.
type StoreError struct {
	Backend string
	Op      string
	Key     string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Backend, e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// =============================================================================
// FACTORY
// =============================================================================

// Open builds the store selected by cfg.Backend.
func Open(cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "sqlite":
		return OpenSQLite(cfg.Path)
	case "redis":
		return NewRedisStore(cfg.RedisURL, cfg.Prefix)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// notify performs a non-blocking send; a pending signal already covers
// this change.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
