package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveworks/grove/internal/agent"
	"github.com/groveworks/grove/internal/git"
	"github.com/groveworks/grove/internal/preview"
	"github.com/groveworks/grove/internal/status"
	"github.com/groveworks/grove/internal/workspace"
)

const (
	statusScrollbackLines  = 120
	previewScrollbackLines = 600
	tickMinInterval        = 60 * time.Millisecond
)

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(tickMinInterval, func(t time.Time) tea.Msg { return tickMsg{at: t} })
}

// refreshCmd re-discovers workspaces. Discovery itself (walking the
// filesystem for worktrees) is the external collaborator this dashboard
// defers to; here it is backed by internal/git's introspection of the
// current repository's worktree list.
func (m *Model) refreshCmd() tea.Cmd {
	projectPath := m.currentProjectPath()
	mux := m.mux
	return func() tea.Msg {
		infos, err := git.List(projectPath)
		if err != nil {
			return refreshDoneMsg{err: err}
		}
		workspaces := make([]*workspace.Workspace, 0, len(infos))
		for _, info := range infos {
			workspaces = append(workspaces, &workspace.Workspace{
				Name:        workspace.Sanitize(info.Branch),
				Branch:      info.Branch,
				Path:        info.Path,
				ProjectPath: projectPath,
				IsMain:      info.IsMain,
				Status:      initialStatus(info.IsMain),
			})
		}
		// A best-effort live-session query: a failure here (tmux not
		// installed, no server running) degrades to the pre-reconcile
		// behavior rather than failing the whole refresh.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		running, _ := mux.ListSessions(ctx)
		return refreshDoneMsg{workspaces: workspaces, runningSessions: running}
	}
}

func initialStatus(isMain bool) workspace.Status {
	if isMain {
		return workspace.StatusMain
	}
	return workspace.StatusIdle
}

func (m *Model) currentProjectPath() string {
	if w := m.selectedWorkspace(); w != nil && w.ProjectPath != "" {
		return w.ProjectPath
	}
	if len(m.cfg.Projects) > 0 {
		return m.cfg.Projects[0].Path
	}
	return "."
}

// pollCmd captures one workspace's session output and cursor, tagged with
// the session's current poll generation so a late result can be dropped.
func (m *Model) pollCmd(w *workspace.Workspace) tea.Cmd {
	st := m.sessionFor(w)
	if st == nil || !w.Status.HasSession() {
		return nil
	}
	gen := st.pollGen.Next()
	session := workspace.SessionName(w.ProjectName, w.Name)
	mux := m.mux
	return func() tea.Msg {
		ctx := context.Background()
		raw, err := mux.CaptureOutput(ctx, session, previewScrollbackLines, false)
		if err != nil {
			return previewPollDoneMsg{workspaceName: w.Name, generation: gen, err: err}
		}
		rendered, err := mux.CaptureOutput(ctx, session, previewScrollbackLines, true)
		if err != nil {
			return previewPollDoneMsg{workspaceName: w.Name, generation: gen, err: err}
		}
		cursor, err := mux.CaptureCursor(ctx, session)
		if err != nil {
			return previewPollDoneMsg{workspaceName: w.Name, generation: gen, err: err}
		}
		return previewPollDoneMsg{
			workspaceName: w.Name,
			generation:    gen,
			lines:         splitLines(raw),
			renderLines:   splitLines(rendered),
			cursorRow:     cursor.Y,
			cursorCol:     cursor.X,
			cursorVisible: cursor.Visible,
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func (m *Model) submitCreateCmd() tea.Cmd {
	form := m.dialogForm
	projectPath := m.currentProjectPath()
	name := workspace.Sanitize(form.nameInput.Value())
	branch := form.branchInput.Value()
	if branch == "" {
		branch = name
	}
	base := form.baseBranchInput.Value()
	agentKind := agentOrder[form.agentIdx]
	skip := form.skipPermissions
	prompt := form.promptInput.Value()

	return func() tea.Msg {
		wtPath := projectPath + "/.worktrees/" + name
		if err := git.Add(git.AddRequest{RepoPath: projectPath, WorktreePath: wtPath, Branch: branch, BaseBranch: base}); err != nil {
			return createDoneMsg{err: err}
		}
		w := &workspace.Workspace{
			Name:           name,
			Branch:         branch,
			BaseBranch:     base,
			Path:           wtPath,
			ProjectPath:    projectPath,
			Agent:          agentKind,
			SupportedAgent: true,
			Status:         workspace.StatusIdle,
		}
		return createDoneMsg{workspace: w, startAgent: true, prompt: prompt, skipPermissions: skip}
	}
}

func (m *Model) submitDeleteCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	projectPath := m.currentProjectPath()
	force := m.dialogForm.forceDelete
	deleteBranch := m.dialogForm.deleteBranch
	name, branch, path := w.Name, w.Branch, w.Path
	return func() tea.Msg {
		if err := git.Remove(projectPath, path, force); err != nil {
			return deleteDoneMsg{workspaceName: name, err: err}
		}
		if deleteBranch {
			_ = git.DeleteBranch(projectPath, branch, force)
		}
		return deleteDoneMsg{workspaceName: name}
	}
}

func (m *Model) submitUpdateFromBaseCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	name, path, base := w.Name, w.Path, w.BaseBranch
	return func() tea.Msg {
		res := git.UpdateFromBase(path, base)
		if res.Conflicted {
			return updateFromBaseDoneMsg{workspaceName: name, conflicted: true, conflictFiles: res.Files}
		}
		return updateFromBaseDoneMsg{workspaceName: name}
	}
}

func (m *Model) startAgentCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	st := m.sessionFor(w)
	if st.startInFlight {
		return nil
	}
	st.startInFlight = true
	return m.startAgentPlanCmd(w, "", false)
}

// startAgentPlanCmd builds and executes a LaunchPlan for w, optionally
// carrying a one-shot prompt and skip-permissions flag from the create
// dialog.
func (m *Model) startAgentPlanCmd(w *workspace.Workspace, prompt string, skipPermissions bool) tea.Cmd {
	mux := m.mux
	plan := agent.BuildLaunchPlan(agent.LaunchRequest{
		WorkspaceName:   w.Name,
		WorkspacePath:   w.Path,
		Agent:           w.Agent,
		Prompt:          prompt,
		SkipPermissions: skipPermissions,
	})
	name := w.Name
	return func() tea.Msg {
		ctx := context.Background()
		for _, cmd := range plan.PreLaunchCmds {
			if err := mux.Execute(ctx, cmd); err != nil {
				return agentStartDoneMsg{workspaceName: name, err: err}
			}
		}
		if err := mux.Execute(ctx, plan.LaunchCmd); err != nil {
			return agentStartDoneMsg{workspaceName: name, err: err}
		}
		return agentStartDoneMsg{workspaceName: name}
	}
}

func (m *Model) stopAgentCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	st := m.sessionFor(w)
	if st.stopInFlight {
		return nil
	}
	st.stopInFlight = true
	mux := m.mux
	session := workspace.SessionName(w.ProjectName, w.Name)
	name := w.Name
	return func() tea.Msg {
		err := mux.Execute(context.Background(), []string{"tmux", "kill-session", "-t", session})
		return agentStopDoneMsg{workspaceName: name, err: err}
	}
}

func (m *Model) restartAgentCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	mux := m.mux
	session := workspace.SessionName(w.ProjectName, w.Name)
	kind, path := w.Agent, w.Path
	name := w.Name
	return func() tea.Msg {
		err := agent.RestartInPane(context.Background(), mux, session, kind, false, nil, agent.NewOpenCodeSessionLookup(), path)
		return agentStartDoneMsg{workspaceName: name, err: err}
	}
}

func (m *Model) attachCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	st := m.sessionFor(w)
	st.interactive = true
	name := w.Name
	m.events.EmitInteractiveEntered(m.events.StartTrace(), name)
	return func() tea.Msg { return attachFinishedMsg{workspaceName: name} }
}

func (m *Model) launchLazygitCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	mux := m.mux
	_, gitSession, _ := workspace.KillSessionNames(w.ProjectName, w.Name)
	path := w.Path
	name := w.Name
	return func() tea.Msg {
		err := mux.Execute(context.Background(), []string{"tmux", "new-session", "-d", "-s", gitSession, "-c", path, "lazygit"})
		return lazygitLaunchDoneMsg{workspaceName: name, err: err}
	}
}

func (m *Model) launchShellCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	mux := m.mux
	_, _, shellSession := workspace.KillSessionNames(w.ProjectName, w.Name)
	path := w.Path
	name := w.Name
	return func() tea.Msg {
		err := mux.Execute(context.Background(), []string{"tmux", "new-session", "-d", "-s", shellSession, "-c", path})
		return workspaceShellLaunchDoneMsg{workspaceName: name, err: err}
	}
}

func (m *Model) copySelectionCmd() tea.Cmd {
	w := m.selectedWorkspace()
	st := m.sessionFor(w)
	if st == nil {
		return nil
	}
	lines := st.preview.Lines
	sel := st.selection
	copier := st.copier
	return func() tea.Msg {
		_ = copier.Copy(lines, &sel)
		return noopMsg{}
	}
}

func (m *Model) pasteClipboardCmd() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	st := m.sessionFor(w)
	mux := m.mux
	session := workspace.SessionName(w.ProjectName, w.Name)
	clip := m.clip
	name := w.Name
	seq := st.traces.Record(session, 0, 0).Seq
	return func() tea.Msg {
		text, err := clip.Read()
		if err != nil {
			return interactiveSendDoneMsg{workspaceName: name, seq: seq, err: err}
		}
		payload := preview.EncodePastePayload(text, st.bracketedPaste)
		err = mux.PasteBuffer(context.Background(), session, payload)
		return interactiveSendDoneMsg{workspaceName: name, seq: seq, err: err}
	}
}

// nextPollDelay derives the adaptive tick interval for a workspace from
// the status package's poll-cadence table.
func nextPollDelay(w *workspace.Workspace, st *sessionState, previewFocused bool) time.Duration {
	return status.PollInterval(w.Status, w.Status.HasSession(), previewFocused, st.interactive, time.Since(st.lastKeyAt), false)
}
