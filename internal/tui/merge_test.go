package tui

import (
	"testing"

	"github.com/groveworks/grove/internal/workspace"
)

func TestOpenMergeDialogStartsReviewStep(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	w.Branch, w.BaseBranch = "feature", "main"

	cmd := m.openMergeDialog()

	if cmd == nil {
		t.Fatalf("expected a diff-loading command")
	}
	if m.activeDialog != DialogMerge {
		t.Fatalf("expected DialogMerge active, got %v", m.activeDialog)
	}
	st := m.sessionFor(w)
	if st.merge == nil || st.merge.step != mergeStepReviewDiff {
		t.Fatalf("expected merge state initialized at review-diff step, got %+v", st.merge)
	}
}

func TestMergeWorkflowReviewDiffPopulatesSummary(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepReviewDiff, diffSummary: "3\t1\tmain.go"})

	st := m.sessionFor(w)
	if st.merge.diffSummary != "3\t1\tmain.go" {
		t.Fatalf("got diff summary %q", st.merge.diffSummary)
	}
}

func TestMergeWorkflowNextAdvancesReviewToChooseMethod(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()

	m.applyMergeDialogAction("merge-next")

	if m.sessionFor(w).merge.step != mergeStepChooseMethod {
		t.Fatalf("expected step chooseMethod, got %v", m.sessionFor(w).merge.step)
	}
}

func TestMergeWorkflowChooseMethodAdvancesToPush(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()
	st := m.sessionFor(w)
	st.merge.step = mergeStepChooseMethod

	m.applyMergeDialogAction("merge-next")
	if st.merge.step != mergeStepPush {
		t.Fatalf("expected step push, got %v", st.merge.step)
	}
}

func TestMergeWorkflowPushDoneRoutesByMethod(t *testing.T) {
	cases := []struct {
		useDirect bool
		want      mergeWorkflowStep
	}{
		{useDirect: false, want: mergeStepCreatePR},
		{useDirect: true, want: mergeStepDirectMerge},
	}
	for _, c := range cases {
		m, _ := newTestModel(t)
		w := addWorkspace(m, "a", workspace.StatusIdle)
		m.openMergeDialog()
		st := m.sessionFor(w)
		st.merge.useDirect = c.useDirect

		m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepPush})

		if st.merge.step != c.want {
			t.Errorf("useDirect=%v: got step %v, want %v", c.useDirect, st.merge.step, c.want)
		}
	}
}

func TestMergeWorkflowCreatePRMovesToWaitingMerge(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()
	st := m.sessionFor(w)
	st.merge.step = mergeStepCreatePR

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepCreatePR, prURL: "https://example.com/pr/1", existingPR: true})

	if st.merge.step != mergeStepWaitingMerge {
		t.Fatalf("expected waitingMerge, got %v", st.merge.step)
	}
	if st.merge.prURL != "https://example.com/pr/1" || !st.merge.existingPR {
		t.Fatalf("got %+v", st.merge)
	}
}

func TestMergeWorkflowWaitingMergeOnlyAdvancesWhenMerged(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()
	st := m.sessionFor(w)
	st.merge.step = mergeStepWaitingMerge

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepWaitingMerge, merged: false})
	if st.merge.step != mergeStepWaitingMerge {
		t.Fatalf("expected to stay at waitingMerge when not merged, got %v", st.merge.step)
	}

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepWaitingMerge, merged: true})
	if st.merge.step != mergeStepCleanup {
		t.Fatalf("expected cleanup once merged, got %v", st.merge.step)
	}
}

func TestMergeWorkflowCleanupFinishesAndClearsState(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()
	st := m.sessionFor(w)
	st.merge.step = mergeStepCleanup

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepCleanup})

	if st.merge != nil {
		t.Fatalf("expected merge state cleared after cleanup, got %+v", st.merge)
	}
	if m.activeDialog != DialogNone {
		t.Fatalf("expected dialog closed after cleanup, got %v", m.activeDialog)
	}
}

func TestMergeWorkflowConflictClearsState(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()
	st := m.sessionFor(w)
	st.merge.step = mergeStepDirectMerge

	m.handleMergeStepDone(mergeStepDoneMsg{workspaceName: "a", step: mergeStepDirectMerge, conflicted: true, conflictFiles: []string{"a.go"}})

	if st.merge != nil {
		t.Fatalf("expected merge state cleared on conflict, got %+v", st.merge)
	}
	if m.activeDialog != DialogNone {
		t.Fatalf("expected dialog closed on conflict, got %v", m.activeDialog)
	}
}

func TestMergeWorkflowCancelClearsState(t *testing.T) {
	m, _ := newTestModel(t)
	w := addWorkspace(m, "a", workspace.StatusIdle)
	m.openMergeDialog()

	m.applyDialogAction("cancel", nil)

	if m.sessionFor(w).merge != nil {
		t.Fatalf("expected merge state cleared on cancel")
	}
	if m.activeDialog != DialogNone {
		t.Fatalf("expected dialog closed on cancel")
	}
}
