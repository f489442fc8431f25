// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kmutt-cpe/chatcpe-tui/internal/api"
	"github.com/kmutt-cpe/chatcpe-tui/internal/layout"
	"github.com/kmutt-cpe/chatcpe-tui/internal/thread"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/components"
	"github.com/kmutt-cpe/chatcpe-tui/internal/ui/styles"
)

// Backend is every API operation the screen uses. *api.Client
// implements it.
type Backend interface {
	components.AuthBackend
	components.ContentBackend
	thread.Sender
	History(ctx context.Context) ([]api.HistoryThread, error)
	DeleteThread(ctx context.Context, threadID string) (*api.MessageResponse, error)
	DeleteHistory(ctx context.Context) (*api.MessageResponse, error)
}

// Mode selects the guest or signed-in screen.
type Mode int

const (
	ModeGuest Mode = iota
	ModeLoggedIn
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	if m == ModeLoggedIn {
		return "logged-in"
	}
	return "guest"
}

// Options wires the screen to its collaborators.
type Options struct {
	Theme    *styles.Theme
	Backend  Backend
	Session  components.SessionWriter
	Markdown *components.Markdown

	// UserID is the stored user id. History loads on mount only when set.
	UserID string

	// Gen is the generation stamped on every async reply.
	Gen int

	// Export writes a transcript and returns its path. Nil disables ctrl+e.
	Export func(thread.Thread) (string, error)

	// OpenURL opens form links. Nil uses components.OpenURL.
	OpenURL func(string) error

	// Threads replaces the thread manager, mainly for tests.
	Threads *thread.Manager
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	mode    Mode
	gen     int
	userID  string
	theme   *styles.Theme
	backend Backend
	md      *components.Markdown
	export  func(thread.Thread) (string, error)

	// Conversation
	threads *thread.Manager
	pending []thread.Pending

	// Panels
	section    components.Section
	sidebar    components.Sidebar
	faqs       components.FAQAccordion
	docs       components.Documents
	docsLoaded bool

	// Widgets
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     KeyMap
	toasts   components.Toasts

	// Overlays
	overlay     components.OverlayKind
	signIn      components.SignIn
	signUp      components.SignUp
	profile     components.Profile
	editProfile components.EditProfile
	logout      components.LogoutConfirm

	account       *api.Profile
	confirmDelAll bool

	layout layout.Layout
	width  int
	height int
}

// New creates the screen in the given mode.
func New(mode Mode, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.ModeAuto)
	}
	threads := opts.Threads
	if threads == nil {
		threads = thread.NewManager()
	}
	md := opts.Markdown
	if md == nil {
		md = components.NewMarkdown(false, "notty")
	}

	in := textinput.New()
	in.Placeholder = "Ask Chat CPE anything..."
	in.Prompt = "› "
	in.CharLimit = 4000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Thinking

	docs := components.NewDocuments(theme, opts.Backend)
	if opts.OpenURL != nil {
		docs = docs.WithOpener(opts.OpenURL)
	}

	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.FullKey = theme.HelpKey
	h.Styles.FullDesc = theme.HelpDesc

	m := Model{
		mode:        mode,
		gen:         opts.Gen,
		userID:      opts.UserID,
		theme:       theme,
		backend:     opts.Backend,
		md:          md,
		export:      opts.Export,
		threads:     threads,
		sidebar:     components.NewSidebar(theme),
		faqs:        components.NewFAQAccordion(theme),
		docs:        docs,
		input:       in,
		viewport:    viewport.New(0, 0),
		spinner:     sp,
		help:        h,
		keys:        DefaultKeyMap().forMode(mode == ModeLoggedIn),
		toasts:      components.NewToasts(),
		signIn:      components.NewSignIn(theme, opts.Backend, opts.Session),
		signUp:      components.NewSignUp(theme, opts.Backend, opts.Session),
		profile:     components.NewProfile(theme, opts.Backend),
		editProfile: components.NewEditProfile(theme, opts.Backend),
		logout:      components.NewLogoutConfirm(theme, opts.Backend, opts.Session),
	}
	m.sidebar.SetAccount(mode == ModeLoggedIn, "")
	m.syncSidebar()
	return m
}

// Init loads FAQs, and for a signed-in user the profile and history.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, components.LoadFAQs(m.backend, m.gen)}
	if m.mode == ModeLoggedIn {
		cmds = append(cmds, LoadAccountCmd(m.backend, m.gen))
		if m.userID != "" {
			cmds = append(cmds, LoadHistoryCmd(m.backend, m.gen))
		}
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Mode returns the screen mode.
func (m Model) Mode() Mode { return m.mode }

// Gen returns the generation stamped on async replies.
func (m Model) Gen() int { return m.gen }

// Section returns the visible panel.
func (m Model) Section() components.Section { return m.section }

// Overlay returns the open overlay, or OverlayNone.
func (m Model) Overlay() components.OverlayKind { return m.overlay }

// Threads returns a copy of the thread list.
func (m Model) Threads() []thread.Thread { return m.threads.Threads() }

// ActiveThread returns the selected thread.
func (m Model) ActiveThread() (thread.Thread, bool) { return m.threads.Active() }

// Pending returns the number of sends in flight.
func (m Model) Pending() int { return len(m.pending) }

// InputValue returns the text in the input box.
func (m Model) InputValue() string { return m.input.Value() }

// Account returns the profile shown in the sidebar, or nil.
func (m Model) Account() *api.Profile { return m.account }

// ThreadsFocused reports whether the sidebar thread list has focus.
func (m Model) ThreadsFocused() bool { return m.sidebar.Focused() }

// Toasts returns the visible notices.
func (m Model) Toasts() []components.Toast { return m.toasts.Items() }

// =============================================================================
// LAYOUT
// =============================================================================

// resize recomputes every size from the terminal dimensions.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.layout = layout.Compute(width, height)
	l := m.layout

	m.sidebar.SetSize(l.SidebarWidth, height)

	inner := m.innerWidth()
	m.input.Width = max(10, min(l.InputWidth, inner)-6)
	m.help.Width = inner

	// messages, then the input box (3 lines) and the footer line
	m.viewport.Width = inner
	m.viewport.Height = max(1, height-5)
	m.faqs.SetSize(inner, height-2)
	m.docs.SetSize(inner, height-2)

	m.signIn.SetWidth(l.ModalWidth)
	m.signUp.SetWidth(l.ModalWidth)
	m.profile.SetWidth(l.ModalWidth)
	m.editProfile.SetWidth(l.ModalWidth)
	m.logout.SetWidth(l.ModalWidth)

	m.refreshViewport()
}

// innerWidth is the main column minus its left padding.
func (m Model) innerWidth() int {
	return max(1, m.layout.ContentWidth-m.layout.PaddingLeft)
}

// syncSidebar copies the thread list and section into the sidebar.
func (m *Model) syncSidebar() {
	m.sidebar.SetSection(m.section)
	if m.mode != ModeLoggedIn {
		m.sidebar.SetThreads(nil)
		return
	}
	activeID := m.threads.ActiveID()
	threads := m.threads.Threads()
	rows := make([]components.SidebarThread, 0, len(threads))
	for _, t := range threads {
		rows = append(rows, components.SidebarThread{ID: t.ID, Title: t.Title, Active: t.ID == activeID})
	}
	m.sidebar.SetThreads(rows)
}
