// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmutt-cpe/chatcpe-tui/internal/storage"
)

// failingStore fails every write.
type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Set(context.Context, string, string) error { return errors.New("read-only") }
func (f failingStore) Delete(context.Context, ...string) error   { return errors.New("read-only") }

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

// =============================================================================
// LOAD / SIGN IN / SIGN OUT
// =============================================================================

func TestSession_LoadEmptyStore(t *testing.T) {
	s := New(storage.NewMemoryStore())
	require.NoError(t, s.Load(context.Background()))

	assert.False(t, s.LoggedIn())
	assert.Empty(t, s.UserID())
}

func TestSession_SignInPersists(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	s := New(store)
	require.NoError(t, s.SignIn(ctx, "tok", "12"))
	assert.True(t, s.LoggedIn())

	v, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	// A fresh session over the same store sees the values.
	again := New(store)
	require.NoError(t, again.Load(ctx))
	assert.Equal(t, Snapshot{Token: "tok", UserID: "12"}, again.Snapshot())
}

func TestSession_SignInRejectsEmptyToken(t *testing.T) {
	s := New(storage.NewMemoryStore())
	assert.Error(t, s.SignIn(context.Background(), "", "1"))
	assert.False(t, s.LoggedIn())
}

func TestSession_SignInStoreFailureKeepsSignedOut(t *testing.T) {
	s := New(failingStore{storage.NewMemoryStore()})
	err := s.SignIn(context.Background(), "tok", "1")
	require.Error(t, err)
	assert.False(t, s.LoggedIn())
}

func TestSession_SignOutClearsEvenOnStoreError(t *testing.T) {
	mem := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyAccessToken, "tok"))

	s := New(failingStore{mem})
	require.NoError(t, s.Load(ctx))
	require.True(t, s.LoggedIn())

	err := s.SignOut(ctx)
	assert.Error(t, err)
	assert.False(t, s.LoggedIn())
}

// =============================================================================
// CHANGE NOTIFICATION
// =============================================================================

func TestSession_OnChangeFiresOnlyOnDifference(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryStore())

	var got []Snapshot
	s.OnChange(func(snap Snapshot) { got = append(got, snap) })

	require.NoError(t, s.SignIn(ctx, "tok", "1"))
	require.NoError(t, s.SignIn(ctx, "tok", "1"))
	require.NoError(t, s.SignOut(ctx))

	require.Len(t, got, 2)
	assert.True(t, got[0].LoggedIn())
	assert.False(t, got[1].LoggedIn())
}

func TestSession_ReloadSeesOtherWriter(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	mine := New(store)
	require.NoError(t, mine.SignIn(ctx, "tok", "1"))

	other := New(store)
	require.NoError(t, other.Load(ctx))
	require.NoError(t, other.SignOut(ctx))

	changed, err := mine.Reload(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, mine.LoggedIn())

	changed, err = mine.Reload(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSession_WatchCmd(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewMemoryStore()
	mine := New(store)
	ch, err := mine.Watch(ctx)
	require.NoError(t, err)
	require.NotNil(t, ch)

	other := New(store)
	require.NoError(t, other.SignIn(context.Background(), "tok", "5"))

	msg := mine.WatchCmd(ch)()
	changed, ok := msg.(ChangedMsg)
	require.True(t, ok, "expected ChangedMsg, got %T", msg)
	assert.Equal(t, "5", changed.Snapshot.UserID)
}

func TestSession_WatchCmdNilChannel(t *testing.T) {
	s := New(storage.NewMemoryStore())
	assert.Nil(t, s.WatchCmd(nil))
}

// =============================================================================
// CLAIMS
// =============================================================================

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	c, err := ParseClaims(signedToken(t, "student@mail.kmutt.ac.th", exp))
	require.NoError(t, err)

	assert.Equal(t, "student@mail.kmutt.ac.th", c.Subject)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp.Add(time.Second)))
}

func TestParseClaims_NotAJWT(t *testing.T) {
	_, err := ParseClaims("opaque-token")
	assert.Error(t, err)
}

func TestDropIfExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	s := New(storage.NewMemoryStore())
	require.NoError(t, s.SignIn(ctx, signedToken(t, "u", now.Add(-time.Minute)), "1"))
	dropped, err := s.DropIfExpired(ctx, now)
	require.NoError(t, err)
	assert.True(t, dropped)
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.SignIn(ctx, signedToken(t, "u", now.Add(time.Hour)), "1"))
	dropped, err = s.DropIfExpired(ctx, now)
	require.NoError(t, err)
	assert.False(t, dropped)
	assert.True(t, s.LoggedIn())

	// Opaque tokens are left for the backend to judge.
	require.NoError(t, s.SignIn(ctx, "opaque", "1"))
	dropped, err = s.DropIfExpired(ctx, now)
	require.NoError(t, err)
	assert.False(t, dropped)
}
