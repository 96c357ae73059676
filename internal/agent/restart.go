package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/workspace"
)

// OpenCodeSessionLookup resolves the newest OpenCode session id recorded
// for a workspace path, for the sqlite fallback step of restart.
type OpenCodeSessionLookup interface {
	NewestSessionID(workspacePath string) (string, bool)
}

const (
	resumeDiscoveryAttempts = 2
	resumeDiscoveryWait     = 150 * time.Millisecond
	restartCaptureLines     = 200
)

// RestartError is returned when no resume command could be produced.
type RestartError struct {
	LastOutput string
}

func (e *RestartError) Error() string {
	return fmt.Sprintf("resume command not found: last_output='%s'", strings.TrimSpace(e.LastOutput))
}

// RestartInPane sends the exit signal for kind, waits for the agent to
// print a resume command, and relaunches it with that command.
func RestartInPane(ctx context.Context, mux tmuxio.Multiplexer, session string, kind workspace.AgentType, unsafe bool, env []EnvVar, lookup OpenCodeSessionLookup, workspacePath string) error {
	if err := sendExitSignal(ctx, mux, session, kind); err != nil {
		return err
	}

	var lastCapture string
	var resumeCmd string
	for i := 0; i < resumeDiscoveryAttempts; i++ {
		if i > 0 {
			time.Sleep(resumeDiscoveryWait)
		}
		captured, err := mux.CaptureOutput(ctx, session, restartCaptureLines, false)
		if err != nil {
			continue
		}
		lastCapture = captured
		if cmd := ExtractResumeCommand(kind, captured, unsafe); cmd != "" {
			resumeCmd = cmd
			break
		}
	}

	if resumeCmd == "" && kind == workspace.AgentOpenCode && lookup != nil {
		if id, ok := lookup.NewestSessionID(workspacePath); ok {
			resumeCmd = "opencode -s " + id
			if unsafe {
				resumeCmd = `OPENCODE_PERMISSION='{"*":"allow"}' ` + resumeCmd
			}
		}
	}

	if resumeCmd == "" {
		return &RestartError{LastOutput: lastCapture}
	}

	if len(env) > 0 {
		if err := mux.Execute(ctx, []string{"tmux", "send-keys", "-t", session, exportEnvCommand(env), "Enter"}); err != nil {
			return err
		}
	}
	return mux.Execute(ctx, []string{"tmux", "send-keys", "-t", session, resumeCmd, "Enter"})
}

func sendExitSignal(ctx context.Context, mux tmuxio.Multiplexer, session string, kind workspace.AgentType) error {
	switch kind {
	case workspace.AgentClaude:
		if err := mux.Execute(ctx, []string{"tmux", "send-keys", "-l", "-t", session, "/exit"}); err != nil {
			return err
		}
		return mux.Execute(ctx, []string{"tmux", "send-keys", "-t", session, "Enter"})
	case workspace.AgentCodex, workspace.AgentOpenCode:
		return mux.Execute(ctx, []string{"tmux", "send-keys", "-t", session, "C-c"})
	default:
		return nil
	}
}
