package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveworks/grove/internal/config"
	"github.com/groveworks/grove/internal/eventlog"
	"github.com/groveworks/grove/internal/keymap"
	"github.com/groveworks/grove/internal/mouse"
	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/workspace"
)

type fakeClipboard struct {
	written string
	toRead  string
}

func (f *fakeClipboard) Write(text string) error { f.written = text; return nil }
func (f *fakeClipboard) Read() (string, error)   { return f.toRead, nil }

func newTestModel(t *testing.T) (*Model, *tmuxio.Fake) {
	t.Helper()
	keys := keymap.NewRegistry()
	for _, b := range keymap.DefaultBindings() {
		keys.RegisterBinding(b)
	}
	events := eventlog.NewWithLoggerAndPath(nil, filepath.Join(t.TempDir(), "events.jsonl"))
	t.Cleanup(func() { _ = events.Close() })
	mux := tmuxio.NewFake()
	m := New(config.Default(), keys, events, mux, &fakeClipboard{}, "test")
	m.width, m.height = 100, 40
	return m, mux
}

func addWorkspace(m *Model, name string, st workspace.Status) *workspace.Workspace {
	w := &workspace.Workspace{Name: name, Branch: name, Agent: workspace.AgentClaude, SupportedAgent: true, Status: st}
	m.workspaces = append(m.workspaces, w)
	return w
}

func TestHandleKey_PaletteTakesPrecedenceOverGlobal(t *testing.T) {
	m, _ := newTestModel(t)
	addWorkspace(m, "a", workspace.StatusIdle)
	m.paletteVisible = true
	m.paletteItems = uiCommandCatalog()

	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(*Model)

	if m.activeDialog != DialogNone {
		t.Errorf("expected palette-open 'n' to be consumed as a filter keystroke, not open the create dialog")
	}
}

func TestHandleKey_DialogTakesPrecedenceOverCommandMapping(t *testing.T) {
	m, _ := newTestModel(t)
	addWorkspace(m, "a", workspace.StatusIdle)
	m.openCreateDialog()

	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = model.(*Model)

	if m.activeDialog != DialogCreate {
		t.Errorf("expected dialog key routing to swallow 'd' rather than opening the delete dialog on top of it")
	}
}

func TestHandleKey_GlobalNavCutsThroughInteractive(t *testing.T) {
	m, _ := newTestModel(t)
	addWorkspace(m, "a", workspace.StatusActive)
	addWorkspace(m, "b", workspace.StatusActive)
	st := m.sessionFor(m.workspaces[0])
	st.interactive = true

	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Alt: true, Runes: []rune("j")})
	m = model.(*Model)

	if m.selected != 1 {
		t.Errorf("alt+j should select-next through interactive mode, got selected=%d", m.selected)
	}
}

func TestHandleKey_InteractiveForwardsUnmappedKeys(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusActive)
	st := m.sessionFor(w)
	st.interactive = true

	before := m.selected
	model, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = model.(*Model)

	if m.selected != before {
		t.Errorf("an ordinary rune key in interactive mode should forward to the session, not change selection")
	}
}

func TestApplyDialogAction_CreateInFlightGuardsDoubleSubmit(t *testing.T) {
	m, _ := newTestModel(t)
	m.openCreateDialog()

	_, cmd1 := m.applyDialogAction("create", nil)
	if !m.createInFlight {
		t.Fatalf("createInFlight should be set after the first submission")
	}
	if cmd1 == nil {
		t.Errorf("first submission should produce a command")
	}

	m.activeDialog = DialogCreate // simulate a second dialog opened while the first is still in flight
	_, cmd2 := m.applyDialogAction("create", nil)
	if cmd2 != nil {
		t.Errorf("second submission while createInFlight should be suppressed, got a non-nil command")
	}
}

func TestApplyDialogAction_DeleteInFlightGuardsDoubleSubmit(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.selected = 0
	m.openDeleteDialog()

	_, cmd1 := m.applyDialogAction("confirm", nil)
	st := m.sessionFor(w)
	if !st.deleteInFlight {
		t.Fatalf("deleteInFlight should be set after the first confirm")
	}
	if cmd1 == nil {
		t.Errorf("first confirm should produce a command")
	}

	m.activeDialog = DialogDelete
	_, cmd2 := m.applyDialogAction("confirm", nil)
	if cmd2 != nil {
		t.Errorf("second confirm while deleteInFlight should be suppressed")
	}
}

func TestStartStopAgentCmd_InFlightGuard(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.selected = 0

	if cmd := m.startAgentCmd(); cmd == nil {
		t.Fatalf("first startAgentCmd should return a command")
	}
	if cmd := m.startAgentCmd(); cmd != nil {
		t.Errorf("second startAgentCmd while startInFlight should be suppressed")
	}

	st := m.sessionFor(w)
	st.startInFlight = false
	st.stopInFlight = false

	if cmd := m.stopAgentCmd(); cmd == nil {
		t.Fatalf("first stopAgentCmd should return a command")
	}
	if cmd := m.stopAgentCmd(); cmd != nil {
		t.Errorf("second stopAgentCmd while stopInFlight should be suppressed")
	}
}

func TestHandlePreviewPollDone_DropsStaleGeneration(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusActive)
	st := m.sessionFor(w)
	st.pollGen.Next() // generation 1 in flight
	current := st.pollGen.Next() // generation 2 in flight, 1 is now stale

	model, _ := m.handlePreviewPollDone(previewPollDoneMsg{
		workspaceName: w.Name,
		generation:    current - 1,
		lines:         []string{"should not apply"},
	})
	m = model.(*Model)

	if len(m.sessionFor(w).preview.Lines) != 0 {
		t.Errorf("stale poll result should be dropped, buffer was mutated")
	}
}

func TestHandlePreviewPollDone_DetectsStatus(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  workspace.Status
	}{
		{"waiting prompt", []string{"› proceed with this change?"}, workspace.StatusWaiting},
		{"error marker", []string{"panic: boom"}, workspace.StatusError},
		{"plain output", []string{"compiling package foo"}, workspace.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(t)
			w := addWorkspace(m, "a", workspace.StatusActive)
			st := m.sessionFor(w)
			gen := st.pollGen.Next()

			model, _ := m.handlePreviewPollDone(previewPollDoneMsg{
				workspaceName: w.Name,
				generation:    gen,
				lines:         tt.lines,
				renderLines:   tt.lines,
			})
			m = model.(*Model)

			got := m.findWorkspace("a").Status
			if got != tt.want {
				t.Errorf("status = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyMouseAction_SidebarClickSelectsAndFocuses(t *testing.T) {
	m, _ := newTestModel(t)
	addWorkspace(m, "a", workspace.StatusIdle)
	addWorkspace(m, "b", workspace.StatusIdle)
	m.focus = FocusPreview
	m.selected = 0

	region := &mouse.Region{ID: regionSidebarRow, Data: 1}
	m.applyMouseAction(mouse.Action{Type: mouse.ActionClick, Region: region})

	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
	if m.focus != FocusSidebar {
		t.Errorf("focus = %v, want FocusSidebar", m.focus)
	}
}

func TestApplyMouseAction_DividerDragClampsSidebarWidth(t *testing.T) {
	m, _ := newTestModel(t)
	m.sidebarWidthPct = 30

	m.mouseHandler.StartDrag(0, 0, regionDivider, m.sidebarWidthPct)
	m.applyMouseAction(mouse.Action{Type: mouse.ActionDrag, DragDX: -1000})
	if m.sidebarWidthPct != 15 {
		t.Errorf("large negative drag should clamp to 15, got %d", m.sidebarWidthPct)
	}

	m.applyMouseAction(mouse.Action{Type: mouse.ActionDrag, DragDX: 1000})
	if m.sidebarWidthPct != 70 {
		t.Errorf("large positive drag should clamp to 70, got %d", m.sidebarWidthPct)
	}
}

func TestApplyMouseAction_ScrollMovesSidebarSelectionOrPreview(t *testing.T) {
	m, _ := newTestModel(t)
	addWorkspace(m, "a", workspace.StatusIdle)
	addWorkspace(m, "b", workspace.StatusIdle)
	m.selected = 0

	region := &mouse.Region{ID: regionSidebarRow}
	m.applyMouseAction(mouse.Action{Type: mouse.ActionScrollDown, Region: region})
	if m.selected != 1 {
		t.Errorf("scroll-down over the sidebar should move selection, got selected=%d", m.selected)
	}
}
