package tui

import (
	"time"

	"github.com/groveworks/grove/internal/workspace"
)

// tickMsg drives the adaptive polling scheduler; at is the tick time the
// reducer compares against each workspace's due time.
type tickMsg struct{ at time.Time }

// noopMsg is returned by commands that have nothing to report, so every
// tea.Cmd closure returns a tea.Msg rather than nil.
type noopMsg struct{}

// refreshDoneMsg reports a completed workspace-discovery refresh.
type refreshDoneMsg struct {
	workspaces      []*workspace.Workspace
	runningSessions []string
	err             error
}

// previewPollDoneMsg reports one workspace's captured output/cursor.
type previewPollDoneMsg struct {
	workspaceName string
	generation    uint64
	lines         []string
	renderLines   []string
	cursorRow     int
	cursorCol     int
	cursorVisible bool
	activity      string
	// assistantMessageIsRecent carries the session-file override from the
	// status reconciler's step 4; zero until a session-log reader is wired
	// into pollCmd, so detection falls back to the capture-only rules.
	assistantMessageIsRecent bool
	err                      error
}

// createDoneMsg reports the outcome of a create-dialog submission.
type createDoneMsg struct {
	workspace       *workspace.Workspace
	startAgent      bool
	prompt          string
	skipPermissions bool
	err             error
}

// deleteDoneMsg reports the outcome of a delete request.
type deleteDoneMsg struct {
	workspaceName string
	err           error
}

// updateFromBaseDoneMsg reports the outcome of an update-from-base request.
type updateFromBaseDoneMsg struct {
	workspaceName string
	conflicted    bool
	conflictFiles []string
	err           error
}

// agentStartDoneMsg/agentStopDoneMsg report lifecycle command completions.
type agentStartDoneMsg struct {
	workspaceName string
	err           error
}

type agentStopDoneMsg struct {
	workspaceName string
	err           error
}

// interactiveSendDoneMsg reports that a queued keystroke/paste has been
// delivered to the multiplexer, draining its trace from the TraceQueue.
type interactiveSendDoneMsg struct {
	workspaceName string
	seq           uint64
	err           error
}

// lazygitLaunchDoneMsg/workspaceShellLaunchDoneMsg report auxiliary session
// launches (session-name suffixes "-git"/"-shell").
type lazygitLaunchDoneMsg struct {
	workspaceName string
	err           error
}

type workspaceShellLaunchDoneMsg struct {
	workspaceName string
	err           error
}

// attachFinishedMsg reports that a suspended external tmux attach returned
// control to the TUI program.
type attachFinishedMsg struct {
	workspaceName string
	err           error
}
