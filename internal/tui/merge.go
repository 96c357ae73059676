package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/groveworks/grove/internal/git"
	"github.com/groveworks/grove/internal/modal"
	gmsg "github.com/groveworks/grove/internal/msg"
	"github.com/groveworks/grove/internal/workspace"
)

// mergeWorkflowStep is one stage of the merge dialog's multi-step flow:
// review the diff, choose a merge method, push, create-or-find a PR (or
// merge directly), wait for the PR to land, then offer post-merge cleanup.
type mergeWorkflowStep int

const (
	mergeStepReviewDiff mergeWorkflowStep = iota
	mergeStepChooseMethod
	mergeStepPush
	mergeStepCreatePR
	mergeStepDirectMerge
	mergeStepWaitingMerge
	mergeStepCleanup
	mergeStepDone
)

// mergeWorkflowState carries one workspace's progress through the merge
// dialog's steps; it lives on sessionState so a step in flight survives the
// dialog being closed and reopened for a different workspace in between.
type mergeWorkflowState struct {
	step mergeWorkflowStep

	diffSummary string
	useDirect   bool
	prURL       string
	existingPR  bool

	deleteWorktree bool
	deleteBranch   bool
	deleteRemote   bool

	err error
}

func newMergeWorkflowState() *mergeWorkflowState {
	return &mergeWorkflowState{deleteWorktree: true, deleteBranch: true}
}

// mergeStepDoneMsg reports a background merge-workflow step's result.
type mergeStepDoneMsg struct {
	workspaceName string
	step          mergeWorkflowStep
	diffSummary   string
	prURL         string
	existingPR    bool
	merged        bool
	conflicted    bool
	conflictFiles []string
	err           error
}

// openMergeDialog starts the merge workflow's first step (loading the diff
// summary) and returns the command that fetches it; the dialog itself shows
// a loading placeholder until mergeStepDoneMsg lands.
func (m *Model) openMergeDialog() tea.Cmd {
	w := m.selectedWorkspace()
	if w == nil {
		return nil
	}
	st := m.sessionFor(w)
	st.merge = newMergeWorkflowState()
	m.activeDialog = DialogMerge
	m.dialog = reviewDiffDialog(w, "")
	return m.advanceMergeDialogCmd(w, st.merge)
}

func reviewDiffDialog(w *workspace.Workspace, diffSummary string) *modal.Modal {
	body := diffSummary
	if body == "" {
		body = "Loading diff…"
	}
	return modal.New(fmt.Sprintf("Merge %s into %s", w.Branch, w.BaseBranch),
		modal.WithWidth(60),
		modal.WithPrimaryAction("merge-next"),
	).AddSection(modal.Text(body)).
		AddSection(modal.Buttons(
			modal.Btn("Continue", "merge-next"),
			modal.Btn("Cancel", "cancel"),
		))
}

func chooseMethodDialog(w *workspace.Workspace, st *mergeWorkflowState) *modal.Modal {
	return modal.New(fmt.Sprintf("Merge %s: choose method", w.Branch),
		modal.WithWidth(55),
		modal.WithPrimaryAction("merge-next"),
	).AddSection(modal.Checkbox("direct", "Merge directly (skip pull request)", &st.useDirect)).
		AddSection(modal.Buttons(
			modal.Btn("Continue", "merge-next"),
			modal.Btn("Cancel", "cancel"),
		))
}

func waitingMergeDialog(w *workspace.Workspace, st *mergeWorkflowState) *modal.Modal {
	title := "Pull request created"
	if st.existingPR {
		title = "Using existing pull request"
	}
	return modal.New(title,
		modal.WithWidth(60),
		modal.WithPrimaryAction("merge-check"),
	).AddSection(modal.Text(st.prURL)).
		AddSection(modal.Buttons(
			modal.Btn("Check if merged", "merge-check"),
			modal.Btn("Cancel", "cancel"),
		))
}

func cleanupDialog(w *workspace.Workspace, st *mergeWorkflowState) *modal.Modal {
	return modal.New("Merged — clean up workspace?",
		modal.WithWidth(55),
		modal.WithPrimaryAction("merge-next"),
	).AddSection(modal.Checkbox("delete-worktree", "Delete local worktree", &st.deleteWorktree)).
		AddSection(modal.Checkbox("delete-branch", "Delete local branch", &st.deleteBranch)).
		AddSection(modal.Checkbox("delete-remote", "Delete remote branch", &st.deleteRemote)).
		AddSection(modal.Buttons(
			modal.Btn("Finish", "merge-next"),
			modal.Btn("Skip", "cancel"),
		))
}

// advanceMergeDialogCmd runs the background work for the current step and
// returns the tea.Cmd that produces its mergeStepDoneMsg.
func (m *Model) advanceMergeDialogCmd(w *workspace.Workspace, st *mergeWorkflowState) tea.Cmd {
	name, path, branch, base := w.Name, w.Path, w.Branch, w.BaseBranch
	switch st.step {
	case mergeStepReviewDiff:
		return func() tea.Msg {
			summary, err := git.DiffStat(path, base)
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepReviewDiff, diffSummary: summary, err: err}
		}
	case mergeStepPush:
		return func() tea.Msg {
			if err := git.Push(path, branch); err != nil {
				return mergeStepDoneMsg{workspaceName: name, step: mergeStepPush, err: err}
			}
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepPush}
		}
	case mergeStepCreatePR:
		return func() tea.Msg {
			title := fmt.Sprintf("Merge %s into %s", branch, base)
			url, existed, err := git.CreatePR(path, base, title, "")
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepCreatePR, prURL: url, existingPR: existed, err: err}
		}
	case mergeStepDirectMerge:
		return func() tea.Msg {
			res := git.MergeBranch(path, branch)
			if res.Conflicted {
				return mergeStepDoneMsg{workspaceName: name, step: mergeStepDirectMerge, conflicted: true, conflictFiles: res.Files}
			}
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepDirectMerge}
		}
	case mergeStepCleanup:
		return func() tea.Msg {
			if st.deleteRemote {
				_ = git.DeleteRemoteBranch(path, branch)
			}
			if st.deleteWorktree {
				_ = git.Remove(w.ProjectPath, path, false)
			}
			if st.deleteBranch {
				_ = git.DeleteBranch(w.ProjectPath, branch, false)
			}
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepCleanup}
		}
	}
	return nil
}

// checkPRMergedCmd polls gh for the PR's merge state.
func (m *Model) checkPRMergedCmd(w *workspace.Workspace) tea.Cmd {
	name, path := w.Name, w.Path
	return func() tea.Msg {
		status, err := git.CheckPR(path)
		if err != nil {
			return mergeStepDoneMsg{workspaceName: name, step: mergeStepWaitingMerge, err: err}
		}
		return mergeStepDoneMsg{workspaceName: name, step: mergeStepWaitingMerge, merged: status.Merged()}
	}
}

// handleMergeStepDone advances the workflow and rebuilds the dialog for
// whichever step comes next.
func (m *Model) handleMergeStepDone(msg mergeStepDoneMsg) (tea.Model, tea.Cmd) {
	w := m.findWorkspace(msg.workspaceName)
	if w == nil {
		return m, nil
	}
	st := m.sessionFor(w)
	mws := st.merge
	if mws == nil {
		return m, nil
	}

	if msg.err != nil {
		mws.err = msg.err
		return m, gmsg.ShowErrorToast(msg.err.Error(), toastDuration)
	}
	if msg.conflicted {
		st.merge = nil
		m.closeDialog()
		return m, gmsg.ShowErrorToast(conflictSummary(msg.conflictFiles), toastDuration)
	}

	switch msg.step {
	case mergeStepReviewDiff:
		mws.diffSummary = msg.diffSummary
		if m.activeDialog == DialogMerge {
			m.dialog = reviewDiffDialog(w, mws.diffSummary)
		}
		return m, nil
	case mergeStepPush:
		if mws.useDirect {
			mws.step = mergeStepDirectMerge
		} else {
			mws.step = mergeStepCreatePR
		}
		return m, m.advanceMergeDialogCmd(w, mws)
	case mergeStepCreatePR:
		mws.prURL = msg.prURL
		mws.existingPR = msg.existingPR
		mws.step = mergeStepWaitingMerge
		if m.activeDialog == DialogMerge {
			m.dialog = waitingMergeDialog(w, mws)
		}
		return m, nil
	case mergeStepDirectMerge:
		mws.step = mergeStepCleanup
		if m.activeDialog == DialogMerge {
			m.dialog = cleanupDialog(w, mws)
		}
		return m, nil
	case mergeStepWaitingMerge:
		if msg.merged {
			mws.step = mergeStepCleanup
			if m.activeDialog == DialogMerge {
				m.dialog = cleanupDialog(w, mws)
			}
			return m, nil
		}
		return m, gmsg.ShowToast("not merged yet", toastDuration)
	case mergeStepCleanup:
		mws.step = mergeStepDone
		st.merge = nil
		m.closeDialog()
		return m, gmsg.ShowToast("merged", toastDuration)
	}
	return m, nil
}

// applyMergeDialogAction handles the merge dialog's step-advancing actions
// ("merge-next", "merge-check"), distinct from the single-shot confirm
// actions the other dialogs use.
func (m *Model) applyMergeDialogAction(action string) (tea.Model, tea.Cmd) {
	w := m.selectedWorkspace()
	st := m.sessionFor(w)
	if w == nil || st == nil || st.merge == nil {
		return m, nil
	}
	mws := st.merge

	switch action {
	case "merge-next":
		switch mws.step {
		case mergeStepReviewDiff:
			mws.step = mergeStepChooseMethod
			m.dialog = chooseMethodDialog(w, mws)
			return m, nil
		case mergeStepChooseMethod:
			mws.step = mergeStepPush
			return m, m.advanceMergeDialogCmd(w, mws)
		case mergeStepCleanup:
			return m, m.advanceMergeDialogCmd(w, mws)
		}
	case "merge-check":
		return m, m.checkPRMergedCmd(w)
	}
	return m, nil
}
