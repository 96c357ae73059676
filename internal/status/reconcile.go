package status

import "github.com/groveworks/grove/internal/workspace"

// ReconcileResult is the outcome of matching known workspaces against the
// multiplexer's live session list.
type ReconcileResult struct {
	OrphanedSessions []string
}

// ReconcileWithSessions updates each workspace's Status/IsOrphaned in place
// against runningSessions (a set of live session names).
func ReconcileWithSessions(workspaces []*workspace.Workspace, sessionNameFor func(*workspace.Workspace) string, runningSessions []string) ReconcileResult {
	running := make(map[string]bool, len(runningSessions))
	for _, s := range runningSessions {
		running[s] = true
	}

	matched := make(map[string]bool, len(workspaces))
	for _, w := range workspaces {
		name := sessionNameFor(w)
		matched[name] = true

		if running[name] {
			w.IsOrphaned = false
			if w.Status != workspace.StatusWaiting && w.Status != workspace.StatusDone &&
				w.Status != workspace.StatusThinking && w.Status != workspace.StatusError {
				w.Status = workspace.StatusActive
			}
			continue
		}

		if w.Status.HasSession() {
			w.IsOrphaned = true
			if w.IsMain {
				w.Status = workspace.StatusMain
			} else {
				w.Status = workspace.StatusIdle
			}
		}
	}

	var orphaned []string
	for _, s := range runningSessions {
		if !matched[s] {
			orphaned = append(orphaned, s)
		}
	}
	return ReconcileResult{OrphanedSessions: orphaned}
}
