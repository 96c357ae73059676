package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	gmsg "github.com/groveworks/grove/internal/msg"
	"github.com/groveworks/grove/internal/preview"
	"github.com/groveworks/grove/internal/status"
	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/workspace"
)

const toastDuration = 4 * time.Second

// Update is the single-threaded reducer: update(msg) -> (model', Cmd).
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.PasteMsg:
		return m.handlePaste(string(msg))

	case tickMsg:
		return m.handleTick(msg)

	case refreshDoneMsg:
		return m.handleRefreshDone(msg)

	case previewPollDoneMsg:
		return m.handlePreviewPollDone(msg)

	case createDoneMsg:
		return m.handleCreateDone(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)

	case mergeStepDoneMsg:
		return m.handleMergeStepDone(msg)

	case updateFromBaseDoneMsg:
		return m.handleUpdateFromBaseDone(msg)

	case agentStartDoneMsg:
		return m.handleAgentStartDone(msg)

	case agentStopDoneMsg:
		return m.handleAgentStopDone(msg)

	case interactiveSendDoneMsg:
		return m.handleInteractiveSendDone(msg)

	case lazygitLaunchDoneMsg, workspaceShellLaunchDoneMsg, attachFinishedMsg, noopMsg:
		return m, nil

	case gmsg.ToastMsg:
		m.toastMessage, m.toastIsError = msg.Message, msg.IsError
		m.toastUntil = time.Now().Add(msg.Duration)
		return m, nil
	}
	return m, nil
}

// handleKey implements the key-routing precedence chain: palette → open
// dialog → navigation globals → interactive (if attached) → focused-pane
// command mapping → global command mapping.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.paletteVisible {
		return m.handlePaletteKey(msg)
	}
	if m.activeDialog != DialogNone {
		return m.handleDialogKey(msg)
	}

	traceID := m.events.StartTrace()

	// Alt-prefixed project/workspace navigation cuts through interactive
	// mode since terminal apps rarely bind these combinations themselves.
	if cmdID, ok := m.keys.Resolve("global", key); ok && isGlobalNavCommand(cmdID) {
		return m, m.executeUiCommand(cmdID)
	}

	if m.interactiveActive() {
		if cmdID, ok := m.keys.Resolve("interactive", key); ok {
			return m, m.executeUiCommand(cmdID)
		}
		return m.forwardInteractiveKey(msg)
	}

	if cmdID, ok := m.keys.Resolve(m.currentFocusContext(), key); ok {
		from := m.selected
		cmd := m.executeUiCommand(cmdID)
		if m.selected != from {
			m.events.EmitSelectionChanged(traceID, indexLabel(m.workspaces, from), indexLabel(m.workspaces, m.selected))
		}
		return m, cmd
	}
	if cmdID, ok := m.keys.Resolve("global", key); ok {
		return m, m.executeUiCommand(cmdID)
	}
	return m, nil
}

func indexLabel(ws []*workspace.Workspace, idx int) string {
	if idx < 0 || idx >= len(ws) {
		return ""
	}
	return ws[idx].Name
}

func isGlobalNavCommand(id string) bool {
	switch id {
	case "select-next", "select-prev", "select-next-project", "select-prev-project", "toggle-sidebar", "toggle-footer":
		return true
	default:
		return false
	}
}

func (m *Model) currentFocusContext() string {
	if m.focus == FocusPreview {
		return "preview"
	}
	return "global"
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmdID, ok := m.keys.Resolve("palette", msg.String())
	if ok {
		switch cmdID {
		case "cancel":
			m.closePalette()
			return m, nil
		case "select-prev":
			if m.paletteCursor > 0 {
				m.paletteCursor--
			}
			return m, nil
		case "select-next":
			if m.paletteCursor < len(m.paletteItems)-1 {
				m.paletteCursor++
			}
			return m, nil
		case "execute":
			if m.paletteCursor >= 0 && m.paletteCursor < len(m.paletteItems) {
				id := m.paletteItems[m.paletteCursor].ID
				m.closePalette()
				return m, m.executeUiCommand(id)
			}
			m.closePalette()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	m.filterPalette()
	return m, cmd
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.dialog == nil {
		m.closeDialog()
		return m, nil
	}
	action, cmd := m.dialog.HandleKey(msg)
	return m.applyDialogAction(action, cmd)
}

// applyDialogAction interprets the action id modal.Modal returns from either
// HandleKey or HandleMouse, so keyboard and mouse dialog interaction share
// one dispatch path.
func (m *Model) applyDialogAction(action string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	switch action {
	case "":
		return m, cmd
	case "cancel":
		if m.activeDialog == DialogMerge {
			if st := m.sessionFor(m.selectedWorkspace()); st != nil {
				st.merge = nil
			}
		}
		m.closeDialog()
		return m, cmd
	case "merge-next", "merge-check":
		return m.applyMergeDialogAction(action)
	case "create":
		kind := m.activeDialog
		m.closeDialog()
		if kind == DialogCreate {
			if m.createInFlight {
				return m, cmd
			}
			m.createInFlight = true
			return m, tea.Batch(cmd, m.submitCreateCmd())
		}
	case "save":
		m.closeDialog()
		return m, cmd
	case "confirm":
		kind := m.activeDialog
		st := m.sessionFor(m.selectedWorkspace())
		m.closeDialog()
		switch kind {
		case DialogDelete:
			if st == nil || st.deleteInFlight {
				return m, cmd
			}
			st.deleteInFlight = true
			return m, tea.Batch(cmd, m.submitDeleteCmd())
		case DialogUpdateFromBase:
			if st == nil || st.updateFromBaseInFlight {
				return m, cmd
			}
			st.updateFromBaseInFlight = true
			return m, tea.Batch(cmd, m.submitUpdateFromBaseCmd())
		}
	}
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.activeDialog != DialogNone && m.dialog != nil {
		action := m.dialog.HandleMouse(msg, m.mouseHandler)
		return m.applyDialogAction(action, nil)
	}
	if m.paletteVisible {
		action := m.mouseHandler.HandleMouse(msg)
		return m, m.applyMouseAction(action)
	}
	if m.interactiveActive() {
		st := m.sessionFor(m.selectedWorkspace())
		st.mouseFrag.OnMouseEvent(time.Now())
	}
	action := m.mouseHandler.HandleMouse(msg)
	return m, m.applyMouseAction(action)
}

func (m *Model) handlePaste(text string) (tea.Model, tea.Cmd) {
	if m.paletteVisible || m.activeDialog != DialogNone {
		return m, nil
	}
	w := m.selectedWorkspace()
	st := m.sessionFor(w)
	if w == nil || st == nil || !st.interactive {
		return m, nil
	}
	payload := preview.EncodePastePayload(text, st.bracketedPaste)
	return m, m.sendToSession(w, st, payload, false)
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, w := range m.workspaces {
		st := m.sessionFor(w)
		if st.dueAt.IsZero() || !st.dueAt.After(msg.at) {
			delay := nextPollDelay(w, st, m.focus == FocusPreview && w == m.selectedWorkspace())
			st.dueAt = msg.at.Add(delay + status.StaggerOffset(w.Name))
			if w.Status.HasSession() {
				cmds = append(cmds, m.pollCmd(w))
			}
		}
	}
	cmds = append(cmds, m.tickCmd())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleRefreshDone(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	m.workspaces = msg.workspaces
	if m.selected >= len(m.workspaces) {
		m.selected = max(0, len(m.workspaces)-1)
	}
	if msg.runningSessions != nil {
		result := status.ReconcileWithSessions(m.workspaces, func(w *workspace.Workspace) string {
			return workspace.SessionName(w.ProjectName, w.Name)
		}, msg.runningSessions)
		for _, orphan := range result.OrphanedSessions {
			m.events.EmitOrphanedSessionFound(orphan)
		}
	}
	return m, nil
}

func (m *Model) handlePreviewPollDone(msg previewPollDoneMsg) (tea.Model, tea.Cmd) {
	w := m.findWorkspace(msg.workspaceName)
	if w == nil {
		return m, nil
	}
	st := m.sessionFor(w)
	if st.pollGen.IsStale(msg.generation) {
		m.events.EmitStalePollDiscarded(msg.workspaceName, msg.generation, st.pollGen.Current())
		return m, nil
	}
	if msg.err != nil {
		if tmuxio.IsMissingSession(msg.err) {
			w.IsOrphaned = true
			if w.IsMain {
				w.Status = workspace.StatusMain
			} else {
				w.Status = workspace.StatusIdle
			}
			if st.interactive {
				st.interactive = false
				m.events.EmitInteractiveExited(m.events.StartTrace(), w.Name)
				st.traces.ClearSession(workspace.SessionName(w.ProjectName, w.Name))
				st.sendQ.Clear()
			}
			return m, nil
		}
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	st.preview.Apply(msg.lines, msg.renderLines)
	st.cursor = preview.CursorMeta{Visible: msg.cursorVisible, Row: msg.cursorRow, Col: msg.cursorCol}
	w.Status = status.DetectStatus(status.DetectInput{
		Lines:                    msg.lines,
		IsMain:                   w.IsMain,
		HasLiveSession:           w.Status.HasSession(),
		SupportedAgent:           w.SupportedAgent,
		AssistantMessageIsRecent: msg.assistantMessageIsRecent,
	})
	return m, nil
}

func (m *Model) handleCreateDone(msg createDoneMsg) (tea.Model, tea.Cmd) {
	m.createInFlight = false
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	m.workspaces = append(m.workspaces, msg.workspace)
	m.selected = len(m.workspaces) - 1
	if msg.startAgent {
		return m, m.startAgentPlanCmd(msg.workspace, msg.prompt, msg.skipPermissions)
	}
	return m, nil
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if st, ok := m.sessions[msg.workspaceName]; ok {
		st.deleteInFlight = false
	}
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	for i, w := range m.workspaces {
		if w.Name == msg.workspaceName {
			m.workspaces = append(m.workspaces[:i], m.workspaces[i+1:]...)
			delete(m.sessions, msg.workspaceName)
			break
		}
	}
	if m.selected >= len(m.workspaces) {
		m.selected = max(0, len(m.workspaces)-1)
	}
	return m, gmsg.ShowToast("workspace deleted", toastDuration)
}

func (m *Model) handleUpdateFromBaseDone(msg updateFromBaseDoneMsg) (tea.Model, tea.Cmd) {
	if st, ok := m.sessions[msg.workspaceName]; ok {
		st.updateFromBaseInFlight = false
	}
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	if msg.conflicted {
		return m, gmsg.ShowErrorToast(conflictSummary(msg.conflictFiles), toastDuration)
	}
	return m, gmsg.ShowToast("updated from base", toastDuration)
}

func conflictSummary(files []string) string {
	if len(files) == 0 {
		return "merge conflict"
	}
	s := "merge conflict in " + files[0]
	if len(files) > 1 {
		s += " (+more)"
	}
	return s
}

func (m *Model) handleAgentStartDone(msg agentStartDoneMsg) (tea.Model, tea.Cmd) {
	w := m.findWorkspace(msg.workspaceName)
	if st, ok := m.sessions[msg.workspaceName]; ok {
		st.startInFlight = false
	}
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	if w != nil {
		w.Status = workspace.StatusActive
	}
	return m, nil
}

func (m *Model) handleAgentStopDone(msg agentStopDoneMsg) (tea.Model, tea.Cmd) {
	w := m.findWorkspace(msg.workspaceName)
	if st, ok := m.sessions[msg.workspaceName]; ok {
		st.stopInFlight = false
	}
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	if w != nil {
		w.Status = workspace.StatusIdle
	}
	return m, nil
}

func (m *Model) handleInteractiveSendDone(msg interactiveSendDoneMsg) (tea.Model, tea.Cmd) {
	w := m.findWorkspace(msg.workspaceName)
	st := m.sessionFor(w)
	if st == nil {
		return m, nil
	}
	session := ""
	if w != nil {
		session = workspace.SessionName(w.ProjectName, w.Name)
	}
	drained := st.traces.DrainSession(session)
	if len(drained) > 1 {
		m.events.EmitInteractiveInputsCoalesced("", session, len(drained), 0)
	} else if len(drained) == 1 {
		m.events.EmitInteractiveInputToPreview("", session, drained[0].Seq, 0)
	}
	if msg.err != nil {
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	return m, nil
}

func (m *Model) findWorkspace(name string) *workspace.Workspace {
	for _, w := range m.workspaces {
		if w.Name == name {
			return w
		}
	}
	return nil
}

func (m *Model) moveSelection(delta int) {
	if len(m.workspaces) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.workspaces)) % len(m.workspaces)
}

func (m *Model) setFocus(f FocusPane) {
	if m.focus != f {
		m.focus = f
		m.events.EmitFocusChanged(m.events.StartTrace(), focusLabel(f))
	}
}

func focusLabel(f FocusPane) string {
	if f == FocusPreview {
		return "preview"
	}
	return "sidebar"
}

func (m *Model) scrollPreview(delta int) {
	st := m.sessionFor(m.selectedWorkspace())
	if st == nil {
		return
	}
	st.preview.Scroll(delta, m.previewViewportHeight())
}

func (m *Model) previewViewportHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) cycleSidebarWidth() {
	widths := []int{20, 30, 40, 50}
	for i, w := range widths {
		if m.sidebarWidthPct == w {
			m.sidebarWidthPct = widths[(i+1)%len(widths)]
			return
		}
	}
	m.sidebarWidthPct = widths[0]
}

func (m *Model) exitInteractive() {
	w := m.selectedWorkspace()
	st := m.sessionFor(w)
	if st == nil || !st.interactive {
		return
	}
	st.interactive = false
	session := ""
	if w != nil {
		session = workspace.SessionName(w.ProjectName, w.Name)
		m.events.EmitInteractiveExited(m.events.StartTrace(), w.Name)
	}
	st.traces.ClearSession(session)
	st.sendQ.Clear()
}

// forwardInteractiveKey maps a keypress into the attached session's pending
// send queue, preserving single-outstanding-send ordering.
func (m *Model) forwardInteractiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	w := m.selectedWorkspace()
	st := m.sessionFor(w)
	if w == nil || st == nil {
		return m, nil
	}
	st.lastKeyAt = time.Now()
	ik := preview.MapInteractiveKey(msg)
	action := preview.HandleKey(ik, false, false, false)
	switch action.Kind {
	case preview.ActionCopySelection:
		return m, m.copySelectionCmd()
	case preview.ActionPasteClipboard:
		return m, m.pasteClipboardCmd()
	case preview.ActionSendNamed:
		return m, m.sendToSession(w, st, action.Payload, true)
	case preview.ActionSendLiteral:
		return m, m.sendToSession(w, st, action.Payload, false)
	default:
		return m, nil
	}
}

// sendToSession queues a payload for the attached session's send FIFO.
// named selects `tmux send-keys -t <S> <key>`; literal (paste/typed text)
// goes through PasteBuffer (`tmux load-buffer` then `tmux paste-buffer`).
func (m *Model) sendToSession(w *workspace.Workspace, st *sessionState, payload string, named bool) tea.Cmd {
	session := workspace.SessionName(w.ProjectName, w.Name)
	now := time.Now().UnixNano()
	entry := st.traces.Record(session, now, now)
	mux := m.mux
	name := w.Name
	return func() tea.Msg {
		result := make(chan error, 1)
		st.sendQ.Enqueue(func(done func()) {
			defer done()
			if named {
				result <- mux.Execute(context.Background(), []string{"tmux", "send-keys", "-t", session, payload})
				return
			}
			result <- mux.PasteBuffer(context.Background(), session, payload)
		})
		return interactiveSendDoneMsg{workspaceName: name, seq: entry.Seq, err: <-result}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
