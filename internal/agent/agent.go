// Package agent plans and drives the agent lifecycle on top of tmuxio:
// building launch commands, extracting resume commands from scrollback,
// and inferring each agent's current skip-permissions mode from its
// private session files.
package agent

import "github.com/groveworks/grove/internal/workspace"

// EnvVar is one entry of an ordered KEY=VALUE environment sequence.
type EnvVar struct {
	Key   string
	Value string
}

// LaunchRequest describes what the operator wants started.
type LaunchRequest struct {
	ProjectName      string
	WorkspaceName    string
	WorkspacePath    string
	Agent            workspace.AgentType
	Prompt           string
	PreLaunchCommand string
	SkipPermissions  bool
	AgentEnv         []EnvVar
	CaptureCols      int
	CaptureRows      int
}

// LauncherScript is a shell script written to disk so the agent's prompt
// body never has to survive shell-argv quoting.
type LauncherScript struct {
	Path     string
	Contents string
}

// LaunchPlan is the fully-resolved sequence of multiplexer commands needed
// to start a LaunchRequest.
type LaunchPlan struct {
	SessionName   string
	PaneLookupCmd []string
	PreLaunchCmds [][]string
	LaunchCmd     []string
	Launcher      *LauncherScript
}

// defaultAgentCommand returns the agent's CLI invocation, with the unsafe
// (skip-permissions) flag spliced in per agent.
func defaultAgentCommand(kind workspace.AgentType, skipPermissions bool) string {
	switch kind {
	case workspace.AgentClaude:
		if skipPermissions {
			return "claude --dangerously-skip-permissions"
		}
		return "claude"
	case workspace.AgentCodex:
		if skipPermissions {
			return "codex --dangerously-bypass-approvals-and-sandbox"
		}
		return "codex"
	case workspace.AgentOpenCode:
		if skipPermissions {
			return `OPENCODE_PERMISSION='{"*":"allow"}' opencode`
		}
		return "opencode"
	default:
		return string(kind)
	}
}

// SupportsInPaneRestart is true for every agent kind Grove knows about;
// all three support resuming a session from scrollback.
func SupportsInPaneRestart(kind workspace.AgentType) bool {
	switch kind {
	case workspace.AgentClaude, workspace.AgentCodex, workspace.AgentOpenCode:
		return true
	default:
		return false
	}
}
