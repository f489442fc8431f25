// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/config"
	"github.com/kmutt-cpe/chatcpe-tui/internal/session"
	"github.com/kmutt-cpe/chatcpe-tui/internal/storage"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	loginErr   error
	logoutErr  error
	register   *api.RegisterResponse
	faqs       []api.FAQ
	faqActive  *bool
	forms      []api.Form
	history    []api.HistoryThread
	answer     string
	sendErr    error
	sent       []string
	sentThread []string
	deleted    []string
	cleared    bool
}

func (f *fakeBackend) Login(_ context.Context, email, password string) (*api.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &api.LoginResponse{AccessToken: "tok-" + email, UserID: "7"}, nil
}

func (f *fakeBackend) Register(_ context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	if f.register != nil {
		return f.register, nil
	}
	return &api.RegisterResponse{AccessToken: "tok-new", UserID: "8"}, nil
}

func (f *fakeBackend) Profile(context.Context) (*api.Profile, error) {
	return &api.Profile{Name: "Somchai", Email: "somchai@kmutt.ac.th", Role: "student"}, nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, name string) (*api.UpdateProfileResponse, error) {
	return &api.UpdateProfileResponse{Message: "Profile updated", User: api.Profile{Name: name}}, nil
}

func (f *fakeBackend) Logout(context.Context) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "bye"}, f.logoutErr
}

func (f *fakeBackend) FAQs(_ context.Context, active *bool) ([]api.FAQ, error) {
	f.faqActive = active
	return f.faqs, nil
}

func (f *fakeBackend) Forms(context.Context) ([]api.Form, error) {
	return f.forms, nil
}

func (f *fakeBackend) SendMessage(_ context.Context, message, threadID string) (*api.SendResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, message)
	f.sentThread = append(f.sentThread, threadID)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &api.SendResponse{Answer: f.answer, ThreadID: "42"}, nil
}

func (f *fakeBackend) History(context.Context) ([]api.HistoryThread, error) {
	return f.history, nil
}

func (f *fakeBackend) DeleteHistory(context.Context) (*api.MessageResponse, error) {
	f.cleared = true
	return &api.MessageResponse{}, nil
}

func (f *fakeBackend) DeleteThread(_ context.Context, id string) (*api.MessageResponse, error) {
	f.deleted = append(f.deleted, id)
	return &api.MessageResponse{}, nil
}

// scriptedInput replays lines and then reports EOF.
type scriptedInput struct {
	lines   []string
	history []string
	closed  bool
}

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedInput) AppendHistory(line string) { s.history = append(s.history, line) }
func (s *scriptedInput) Close() error             { s.closed = true; return nil }

type testApp struct {
	*App
	backend *fakeBackend
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())

	backend := &fakeBackend{answer: "**hi**"}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	clock := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	app := &App{
		Config:  config.Default(),
		Backend: backend,
		Session: session.New(storage.NewMemoryStore()),
		Out:     out,
		Err:     errOut,
		In:      strings.NewReader(""),
		Now:     func() time.Time { return clock },
		OpenURL: func(string) error { return nil },
	}
	return &testApp{App: app, backend: backend, out: out, errOut: errOut}
}

func (ta *testApp) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, ta.Session.SignIn(context.Background(), "tok", "7"))
}

func sampleHistory() []api.HistoryThread {
	return []api.HistoryThread{
		{ID: "10", Title: "ขอใบรับรอง", Messages: []api.HistoryMessage{
			{ID: "1", Role: "user", Text: "ขอใบรับรองสถานะนักศึกษา"},
			{ID: "2", Role: "bot", Text: "กรอกแบบฟอร์ม ENG-01"},
		}},
		{ID: "11", Title: "Parking", Messages: []api.HistoryMessage{
			{ID: "3", Role: "user", Text: "Where can I park?"},
			{ID: "4", Role: "bot", Text: "Building S1"},
		}},
	}
}

// =============================================================================
// PARSING
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		argv []string
		cmd  Command
		raw  []string
	}{
		{nil, CmdTUI, nil},
		{[]string{"login", "--email", "a@b.c"}, CmdLogin, []string{"--email", "a@b.c"}},
		{[]string{"--no-color", "faq", "--all"}, CmdFAQ, []string{"--all"}},
		{[]string{"ASK", "hello"}, CmdAsk, []string{"hello"}},
		{[]string{"forms"}, CmdDocs, []string{}},
		{[]string{"--version"}, CmdVersion, nil},
		{[]string{"-h"}, CmdHelp, nil},
	}
	for _, tt := range tests {
		cmd, args := Parse(tt.argv)
		assert.Equal(t, tt.cmd, cmd, "%v", tt.argv)
		if tt.raw != nil {
			assert.Equal(t, tt.raw, args.Raw, "%v", tt.argv)
		}
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := Parse([]string{"-q", "--api-url=http://x:1", "history"})
	assert.Equal(t, CmdHistory, cmd)
	assert.True(t, args.Quiet)
	assert.Equal(t, "http://x:1", args.APIURL)
}

func TestParse_Unknown(t *testing.T) {
	cmd, args := Parse([]string{"frobnicate"})
	assert.Equal(t, CmdHelp, cmd)
	assert.Equal(t, "frobnicate", args.Unknown)
}

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--since=2024", "--raw", "what", "-y", "--", "--literal"}, "raw")

	assert.Equal(t, "show", p.Subcommand())
	assert.Equal(t, "50", p.Flag("lines"))
	assert.Equal(t, "2024", p.Flag("--since"))
	assert.True(t, p.BoolFlag("raw"))
	assert.True(t, p.BoolFlag("yes", "y"))
	assert.Equal(t, []string{"show", "what", "--literal"}, p.PositionalFrom(0))
	assert.Equal(t, "", p.Positional(9))
	assert.Equal(t, "what --literal", JoinPositionalArgs(p, 1))
}

func TestArgParser_ExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--name=x"}, "json")
	assert.False(t, p.BoolFlag("json"))
	assert.Equal(t, "x", p.Flag("name"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "on", "1"} {
		b, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, b)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_StoresSession(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Run(context.Background(), CmdLogin, Args{Raw: []string{"--email", "a@kmutt.ac.th", "--password", "pw"}})
	require.NoError(t, err)

	snap := ta.Session.Snapshot()
	assert.Equal(t, "tok-a@kmutt.ac.th", snap.Token)
	assert.Equal(t, "7", snap.UserID)
	assert.Contains(t, ta.out.String(), "Signed in as a@kmutt.ac.th")
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	ta := newTestApp(t)
	ta.In = strings.NewReader("secret\n")

	require.NoError(t, ta.Login(context.Background(), []string{"-e", "a@b.c"}))
	assert.True(t, ta.Session.LoggedIn())
}

func TestLogin_UnauthorizedShowsDetailAndStaysSignedOut(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.loginErr = &api.APIError{Status: 401, Detail: "Invalid email or password"}

	err := ta.Login(context.Background(), []string{"--email", "a@b.c", "--password", "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.True(t, errors.Is(err, api.ErrUnauthorized))
	assert.Equal(t, ExitGeneralError, ExitCode(err))
	assert.False(t, ta.Session.LoggedIn())
}

func TestLogin_MissingCredentials(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Login(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Equal(t, "Please enter email and password", err.Error())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Register(context.Background(), []string{"--name", "A", "--email", "a@b.c", "--password", "x", "--confirm", "y"})
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())
}

func TestRegister_VerificationReply(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.register = &api.RegisterResponse{Message: "Check your inbox"}

	err := ta.Register(context.Background(), []string{"--name", "A", "--email", "a@b.c", "--password", "x"})
	require.NoError(t, err)
	assert.Contains(t, ta.out.String(), "Check your inbox")
	assert.False(t, ta.Session.LoggedIn())
}

func TestRegister_TokenReplySignsIn(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Register(context.Background(), []string{"--name", "A", "--email", "a@b.c", "--password", "x"})
	require.NoError(t, err)
	assert.Equal(t, "8", ta.Session.UserID())
}

func TestLogout_ClearsEvenWhenRequestFails(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)
	ta.backend.logoutErr = errors.New("connection refused")

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.Session.LoggedIn())
	assert.Contains(t, ta.out.String(), "Signed out")
}

func TestProfile_RequiresLogin(t *testing.T) {
	ta := newTestApp(t)

	err := ta.Profile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestProfile_ShowAndRename(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)

	require.NoError(t, ta.Profile(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "somchai@kmutt.ac.th")

	ta.out.Reset()
	require.NoError(t, ta.Profile(context.Background(), []string{"set-name", "Somchai", "J."}))
	assert.Contains(t, ta.out.String(), "Profile updated")

	err := ta.Profile(context.Background(), []string{"set-name"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

// =============================================================================
// CONTENT
// =============================================================================

func TestFAQ_ActiveSortedPlainText(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.faqs = []api.FAQ{
		{ID: "2", Question: "Second?", Answer: "<p>two</p>", DisplayOrder: 2},
		{ID: "1", Question: "First?", Answer: "<p>one <b>bold</b></p>", DisplayOrder: 1},
	}

	require.NoError(t, ta.FAQ(context.Background(), nil))
	require.NotNil(t, ta.backend.faqActive)
	assert.True(t, *ta.backend.faqActive)

	out := ta.out.String()
	assert.Less(t, strings.Index(out, "First?"), strings.Index(out, "Second?"))
	assert.Contains(t, out, "bold")
	assert.NotContains(t, out, "<b>")
}

func TestFAQ_AllAndFilter(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.faqs = []api.FAQ{{Question: "Parking?", Answer: "S1"}, {Question: "Fees?", Answer: "Pay online"}}

	require.NoError(t, ta.FAQ(context.Background(), []string{"--all", "parking"}))
	assert.Nil(t, ta.backend.faqActive)
	assert.Contains(t, ta.out.String(), "Parking?")
	assert.NotContains(t, ta.out.String(), "Fees?")
}

func TestDocs_ListAndOpen(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.forms = []api.Form{{Code: "ENG-01", Title: "Student status", URL: "https://example.ac.th/eng01.pdf"}}
	var opened string
	ta.OpenURL = func(u string) error { opened = u; return nil }

	require.NoError(t, ta.Docs(context.Background(), nil))
	assert.Contains(t, ta.out.String(), "ENG-01")

	require.NoError(t, ta.Docs(context.Background(), []string{"open", "eng-01"}))
	assert.Equal(t, "https://example.ac.th/eng01.pdf", opened)

	err := ta.Docs(context.Background(), []string{"open", "NOPE"})
	assert.Error(t, err)
}

// =============================================================================
// CHAT
// =============================================================================

func TestAsk_ArgumentsUseTempThread(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.Ask(context.Background(), []string{"--raw", "what", "is", "CPE?"}))
	require.Len(t, ta.backend.sent, 1)
	assert.Equal(t, "what is CPE?", ta.backend.sent[0])
	assert.True(t, thread.IsTemporary(ta.backend.sentThread[0]))
	assert.Equal(t, "**hi**\n", ta.out.String())
}

func TestAsk_StdinAndThreadFlag(t *testing.T) {
	ta := newTestApp(t)
	ta.In = strings.NewReader("  from a pipe \n")

	require.NoError(t, ta.Ask(context.Background(), []string{"--thread", "42"}))
	assert.Equal(t, []string{"from a pipe"}, ta.backend.sent)
	assert.Equal(t, []string{"42"}, ta.backend.sentThread)
}

func TestAsk_FailureIsError(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.sendErr = &api.APIError{Status: 500, Detail: "model offline"}

	err := ta.Ask(context.Background(), []string{"hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
}

func TestAsk_Empty(t *testing.T) {
	ta := newTestApp(t)
	err := ta.Ask(context.Background(), nil)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestHistory_ListShowDelete(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)
	ta.backend.history = sampleHistory()

	require.NoError(t, ta.History(context.Background(), nil))
	out := ta.out.String()
	assert.Less(t, strings.Index(out, "ขอใบรับรอง"), strings.Index(out, "Parking"))

	ta.out.Reset()
	require.NoError(t, ta.History(context.Background(), []string{"show", "2"}))
	assert.Contains(t, ta.out.String(), "Building S1")

	require.NoError(t, ta.History(context.Background(), []string{"delete", "11"}))
	assert.Equal(t, []string{"11"}, ta.backend.deleted)

	err := ta.History(context.Background(), []string{"show", "99"})
	assert.ErrorIs(t, err, thread.ErrUnknownThread)
}

func TestHistory_ClearNeedsYesWithoutTerminal(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)

	err := ta.History(context.Background(), []string{"clear"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.False(t, ta.backend.cleared)

	require.NoError(t, ta.History(context.Background(), []string{"clear", "--yes"}))
	assert.True(t, ta.backend.cleared)
}

func TestHistory_InteractiveConfirm(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)
	ta.Interactive = true
	ta.In = strings.NewReader("n\n")

	require.NoError(t, ta.History(context.Background(), []string{"clear"}))
	assert.False(t, ta.backend.cleared)
	assert.Contains(t, ta.out.String(), "Cancelled")
}

func TestChat_GuestSession(t *testing.T) {
	ta := newTestApp(t)
	input := &scriptedInput{lines: []string{"hello", "", "/threads", "/new", "/threads", "/quit", "never"}}
	ta.NewLineInput = func() (LineInput, error) { return input, nil }

	require.NoError(t, ta.Chat(context.Background(), nil))

	assert.Equal(t, []string{"hello"}, ta.backend.sent)
	assert.True(t, thread.IsTemporary(ta.backend.sentThread[0]))
	assert.True(t, input.closed)
	assert.Equal(t, []string{"hello", "/threads", "/new", "/threads", "/quit"}, input.history)

	out := ta.out.String()
	assert.Contains(t, out, "**hi**")
	assert.Contains(t, out, "1. hello")
	assert.Contains(t, out, "New Chat")
}

func TestChat_SignedInContinuesThread(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)
	ta.backend.history = sampleHistory()
	input := &scriptedInput{lines: []string{"/open 11", "and on weekends?", "/export"}}
	ta.NewLineInput = func() (LineInput, error) { return input, nil }

	require.NoError(t, ta.Chat(context.Background(), nil))

	assert.Equal(t, []string{"11"}, ta.backend.sentThread)
	assert.Contains(t, ta.out.String(), "Building S1")

	dir, err := config.ConfigDir()
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(dir, "transcripts"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestChat_SendFailureShowsFallback(t *testing.T) {
	ta := newTestApp(t)
	ta.backend.sendErr = &api.APIError{Status: 503, Detail: "busy"}
	input := &scriptedInput{lines: []string{"hi"}}
	ta.NewLineInput = func() (LineInput, error) { return input, nil }

	require.NoError(t, ta.Chat(context.Background(), nil))
	assert.Contains(t, ta.out.String(), thread.SendFailed)
	assert.Contains(t, ta.errOut.String(), "busy")
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_LatestAndList(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)
	ta.backend.history = sampleHistory()
	dir := t.TempDir()

	require.NoError(t, ta.Export(context.Background(), []string{"--out", dir, "--format", "json"}))
	path := strings.TrimSpace(ta.out.String())
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ขอใบรับรองสถานะนักศึกษา")

	ta.out.Reset()
	require.NoError(t, ta.Export(context.Background(), []string{"list", "--out", dir}))
	assert.Contains(t, ta.out.String(), filepath.Base(path))
}

func TestExport_BadFormat(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)

	err := ta.Export(context.Background(), []string{"--format", "pdf"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestExport_NoHistory(t *testing.T) {
	ta := newTestApp(t)
	ta.signIn(t)

	err := ta.Export(context.Background(), []string{"--out", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chat history")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_GetSetPersists(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, ta.ConfigCmd([]string{"set", "ui.theme", "dark"}))
	ta.out.Reset()
	require.NoError(t, ta.ConfigCmd([]string{"get", "ui.theme"}))
	assert.Equal(t, "dark\n", ta.out.String())

	path, err := config.ConfigPath()
	require.NoError(t, err)
	loaded := config.Default()
	require.NoError(t, config.LoadTOML(loaded, path))
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestConfig_UnknownKey(t *testing.T) {
	ta := newTestApp(t)
	err := ta.ConfigCmd([]string{"get", "nope"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestConfig_ShowPlainWithoutColor(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.ConfigCmd([]string{"show"}))
	assert.Contains(t, ta.out.String(), "base_url = \"http://localhost:8000\"")
	assert.NotContains(t, ta.out.String(), "\x1b[")
}

func TestHighlightTOML_Colors(t *testing.T) {
	out := highlightTOML("[api]\nbase_url = \"x\"\n", true)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "base_url")
}

// =============================================================================
// ERRORS
// =============================================================================

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitUsageError, ExitCode(usageErrorf("bad")))
	assert.Equal(t, ExitConfigError, ExitCode(config.ValidateErrors{{Field: "x", Message: "y"}}))
	assert.Equal(t, ExitGeneralError, ExitCode(errors.New("boom")))
}

func TestRun_UnknownCommandPrintsUsage(t *testing.T) {
	ta := newTestApp(t)
	err := ta.Run(context.Background(), CmdHelp, Args{Unknown: "frob"})
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Contains(t, ta.out.String(), "Usage:")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, usageErrorf("bad flag"))
	assert.Contains(t, buf.String(), "bad flag")
	assert.Contains(t, buf.String(), "chatcpe help")
}
