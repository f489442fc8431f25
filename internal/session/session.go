// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kmutt-cpe/chatcpe-tui/internal/storage"
)

// Storage keys.
const (
	KeyAccessToken = "access_token"
	KeyUserID      = "user_id"
)

// Snapshot is a copy of the session values at one point in time.
type Snapshot struct {
	Token  string
	UserID string
}

// LoggedIn reports whether the snapshot carries a token.
func (s Snapshot) LoggedIn() bool {
	return s.Token != ""
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the explicit replacement for a global token. Safe for
// concurrent use.
type Session struct {
	mu    sync.RWMutex
	store storage.Store
	cur   Snapshot

	// Callbacks
	onChange []func(Snapshot)
}

// New returns an empty session persisted in store.
func New(store storage.Store) *Session {
	return &Session{store: store}
}

// Load reads the stored values. Missing keys mean signed out.
func (s *Session) Load(ctx context.Context) error {
	snap, err := s.read(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = snap
	s.mu.Unlock()
	return nil
}

func (s *Session) read(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Token, err = s.get(ctx, KeyAccessToken); err != nil {
		return Snapshot{}, err
	}
	if snap.UserID, err = s.get(ctx, KeyUserID); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session %s: %w", key, err)
	}
	return v, nil
}

// Token returns the bearer token, empty when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// UserID returns the stored user id, empty when unknown.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.UserID
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Snapshot returns a copy of the current values.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// =============================================================================
// SIGN IN / SIGN OUT
// =============================================================================

// SignIn stores token and userID. The in-memory values change only if
// both writes succeed.
func (s *Session) SignIn(ctx context.Context, token, userID string) error {
	if token == "" {
		return errors.New("sign in: empty token")
	}
	if err := s.store.Set(ctx, KeyAccessToken, token); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if userID != "" {
		if err := s.store.Set(ctx, KeyUserID, userID); err != nil {
			return fmt.Errorf("save user id: %w", err)
		}
	} else if err := s.store.Delete(ctx, KeyUserID); err != nil {
		return fmt.Errorf("clear user id: %w", err)
	}

	s.replace(Snapshot{Token: token, UserID: userID})
	slog.Info("session signed in", "user_id", userID)
	return nil
}

// SignOut clears the session. Memory is cleared even when the store
// fails, so the UI never keeps showing a signed-in state after logout.
func (s *Session) SignOut(ctx context.Context) error {
	err := s.store.Delete(ctx, KeyAccessToken, KeyUserID)
	s.replace(Snapshot{})
	slog.Info("session signed out")
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Reload re-reads the store and reports whether the values changed, for
// example because another chatcpe process signed in or out.
func (s *Session) Reload(ctx context.Context) (bool, error) {
	snap, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	return s.replace(snap), nil
}

// replace swaps the values and runs callbacks when they differ.
func (s *Session) replace(snap Snapshot) bool {
	s.mu.Lock()
	if s.cur == snap {
		s.mu.Unlock()
		return false
	}
	s.cur = snap
	callbacks := append([]func(Snapshot){}, s.onChange...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(snap)
	}
	return true
}

// OnChange registers fn to run after every change. Callbacks run on the
// goroutine that made the change, without the lock held.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// =============================================================================
// EXPIRY
// =============================================================================

// DropIfExpired signs out when the stored token's exp claim has passed.
// Tokens that are not JWTs, or carry no exp, are kept.
func (s *Session) DropIfExpired(ctx context.Context, now time.Time) (bool, error) {
	token := s.Token()
	if token == "" {
		return false, nil
	}
	claims, err := ParseClaims(token)
	if err != nil || !claims.Expired(now) {
		return false, nil
	}
	slog.Info("stored token expired", "expired_at", claims.ExpiresAt)
	return true, s.SignOut(ctx)
}

// Watch returns the store's change channel, or nil when the store
// cannot report changes.
func (s *Session) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := s.store.(storage.Watcher)
	if !ok {
		return nil, nil
	}
	return w.Watch(ctx)
}
