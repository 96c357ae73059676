// Package tui is Grove's event-driven reducer: a single Model mutated by
// Update(msg) in response to a typed message stream, rendering through
// View(). It is the one place allowed to mutate UI state; every subsystem
// below it (agent, status, preview, taskqueue, tmuxio) is a pure function or
// a narrow capability interface the reducer drives.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveworks/grove/internal/agent"
	"github.com/groveworks/grove/internal/config"
	"github.com/groveworks/grove/internal/eventlog"
	"github.com/groveworks/grove/internal/keymap"
	"github.com/groveworks/grove/internal/modal"
	"github.com/groveworks/grove/internal/mouse"
	"github.com/groveworks/grove/internal/preview"
	"github.com/groveworks/grove/internal/taskqueue"
	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/workspace"
)

// FocusPane names which half of the split view owns navigation keys.
type FocusPane int

const (
	FocusSidebar FocusPane = iota
	FocusPreview
)

// PreviewTab selects which preview sub-view is rendered for a workspace.
type PreviewTab int

const (
	TabOutput PreviewTab = iota
	TabDiff
)

// DialogKind tags which dialog variant, if any, occupies the single
// ActiveDialog slot.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogCreate
	DialogEdit
	DialogLaunch
	DialogDelete
	DialogMerge
	DialogUpdateFromBase
	DialogSettings
	DialogProject
)

// sessionState is the per-workspace runtime state that does not belong on
// the discovered Workspace record itself: preview buffer, interactive mode,
// selection, and the async queues that serialize input/poll traffic.
type sessionState struct {
	preview     *preview.Buffer
	cursor      preview.CursorMeta
	selection   preview.Selection
	interactive bool
	lastKeyAt   time.Time

	bracketedPaste bool

	traces   *taskqueue.TraceQueue
	sendQ    *taskqueue.SendQueue
	pollGen  taskqueue.PollGeneration
	dueAt    time.Time
	doubleEsc preview.DoubleEscapeTracker
	mouseFrag preview.MouseFragmentFilter

	copier *preview.CopySelection

	// in-flight flags guard against a second lifecycle command firing for
	// this workspace before the first one's done message has landed.
	deleteInFlight         bool
	updateFromBaseInFlight bool
	startInFlight          bool
	stopInFlight           bool

	merge *mergeWorkflowState
}

func newSessionState(clip preview.ClipboardAccess) *sessionState {
	return &sessionState{
		preview: preview.NewBuffer(),
		traces:  taskqueue.NewTraceQueue(maxPendingTraces),
		sendQ:   &taskqueue.SendQueue{},
		copier:  preview.NewCopySelection(clip),
	}
}

const maxPendingTraces = 128

// Model is Grove's entire mutable UI state.
type Model struct {
	cfg     *config.Config
	keys    *keymap.Registry
	events  *eventlog.Dispatcher
	mux     tmuxio.Multiplexer
	clip    preview.ClipboardAccess
	version string

	width, height int
	sidebarWidthPct int
	sidebarHidden bool
	footerHidden  bool

	workspaces []*workspace.Workspace
	sessions   map[string]*sessionState // keyed by workspace.Name

	selected int
	focus    FocusPane
	tab      PreviewTab

	activeDialog DialogKind
	dialog       *modal.Modal
	dialogForm   dialogForm

	mouseHandler *mouse.Handler

	paletteVisible bool
	paletteInput   textinput.Model
	paletteItems   []UiCommand
	paletteCursor  int

	keybindHelpOpen bool

	toastMessage string
	toastIsError bool
	toastUntil   time.Time

	// createInFlight guards the create dialog: a second submission cannot
	// fire until the first create's done message lands, since the workspace
	// it names does not exist yet to carry a per-workspace flag.
	createInFlight bool

	quitting bool
	err      error
}

// New constructs a Model from its externally-owned collaborators: config,
// keymap registry, event dispatcher, multiplexer, clipboard access, and the
// build version shown in the Settings dialog.
func New(cfg *config.Config, keys *keymap.Registry, events *eventlog.Dispatcher, mux tmuxio.Multiplexer, clip preview.ClipboardAccess, version string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type a command..."
	m := &Model{
		cfg:             cfg,
		keys:            keys,
		events:          events,
		mux:             mux,
		clip:            clip,
		version:         version,
		sidebarWidthPct: cfg.SidebarWidthPct,
		sessions:        make(map[string]*sessionState),
		mouseHandler:    mouse.NewHandler(),
		paletteInput:    ti,
	}
	return m
}

// Init kicks off the first refresh and the tick loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

func (m *Model) selectedWorkspace() *workspace.Workspace {
	if m.selected < 0 || m.selected >= len(m.workspaces) {
		return nil
	}
	return m.workspaces[m.selected]
}

func (m *Model) sessionFor(w *workspace.Workspace) *sessionState {
	if w == nil {
		return nil
	}
	st, ok := m.sessions[w.Name]
	if !ok {
		st = newSessionState(m.clip)
		m.sessions[w.Name] = st
	}
	return st
}

// modalOpen is true whenever any modal surface is showing:
// ActiveDialog.is_some() ∨ palette.visible ∨ keybind_help_open.
func (m *Model) modalOpen() bool {
	return m.activeDialog != DialogNone || m.paletteVisible || m.keybindHelpOpen
}

func (m *Model) interactiveActive() bool {
	st := m.sessionFor(m.selectedWorkspace())
	return st != nil && st.interactive
}
