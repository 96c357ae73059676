package status

import (
	"testing"

	"github.com/groveworks/grove/internal/workspace"
)

func sessionNameFor(w *workspace.Workspace) string {
	return workspace.SessionName(w.ProjectName, w.Name)
}

func TestReconcileMarksOrphanedWhenSessionDisappears(t *testing.T) {
	w := &workspace.Workspace{ProjectName: "grove", Name: "feature-x", Status: workspace.StatusActive}
	result := ReconcileWithSessions([]*workspace.Workspace{w}, sessionNameFor, nil)

	if !w.IsOrphaned {
		t.Fatalf("expected workspace to be marked orphaned")
	}
	if w.Status != workspace.StatusIdle {
		t.Fatalf("got status %v, want Idle", w.Status)
	}
	if len(result.OrphanedSessions) != 0 {
		t.Fatalf("expected no orphaned sessions reported, got %v", result.OrphanedSessions)
	}
}

func TestReconcileReportsUnmatchedSessionsAsOrphaned(t *testing.T) {
	w := &workspace.Workspace{ProjectName: "grove", Name: "feature-x", Status: workspace.StatusIdle}
	running := []string{workspace.SessionName("grove", "feature-x"), "grove-ws-stale-leftover"}

	result := ReconcileWithSessions([]*workspace.Workspace{w}, sessionNameFor, running)

	if len(result.OrphanedSessions) != 1 || result.OrphanedSessions[0] != "grove-ws-stale-leftover" {
		t.Fatalf("got %v", result.OrphanedSessions)
	}
	if w.IsOrphaned {
		t.Fatalf("matched workspace should not be orphaned")
	}
	if w.Status != workspace.StatusActive {
		t.Fatalf("got status %v, want Active", w.Status)
	}
}

func TestReconcilePreservesWaitingStatusForMatchedSession(t *testing.T) {
	w := &workspace.Workspace{ProjectName: "grove", Name: "feature-x", Status: workspace.StatusWaiting}
	running := []string{workspace.SessionName("grove", "feature-x")}

	ReconcileWithSessions([]*workspace.Workspace{w}, sessionNameFor, running)

	if w.Status != workspace.StatusWaiting {
		t.Fatalf("got %v, want Waiting preserved", w.Status)
	}
}
