package agent

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/groveworks/grove/internal/workspace"
)

const promptHeredocMarker = "GROVE_PROMPT_EOF"

// BuildLaunchPlan resolves a LaunchRequest into the exact multiplexer
// command sequence that will start it.
func BuildLaunchPlan(req LaunchRequest) LaunchPlan {
	sessionName := workspace.SessionName(req.ProjectName, req.WorkspaceName)

	plan := LaunchPlan{
		SessionName:   sessionName,
		PaneLookupCmd: []string{"tmux", "has-session", "-t", sessionName},
	}

	if req.CaptureCols > 0 && req.CaptureRows > 0 {
		plan.PreLaunchCmds = append(plan.PreLaunchCmds, []string{
			"tmux", "resize-window", "-t", sessionName,
			"-x", strconv.Itoa(req.CaptureCols), "-y", strconv.Itoa(req.CaptureRows),
		})
	}
	plan.PreLaunchCmds = append(plan.PreLaunchCmds, []string{
		"tmux", "new-session", "-d", "-s", sessionName, "-c", req.WorkspacePath,
	})

	if len(req.AgentEnv) > 0 {
		plan.PreLaunchCmds = append(plan.PreLaunchCmds, []string{
			"tmux", "send-keys", "-t", sessionName, exportEnvCommand(req.AgentEnv), "Enter",
		})
	}

	agentCmd := defaultAgentCommand(req.Agent, req.SkipPermissions)
	if req.PreLaunchCommand != "" {
		agentCmd = req.PreLaunchCommand + " && " + agentCmd
	}

	if req.Prompt != "" {
		script := buildLauncherScript(req.WorkspacePath, agentCmd, req.Prompt)
		plan.Launcher = &script
		plan.LaunchCmd = []string{
			"tmux", "send-keys", "-t", sessionName, "bash " + script.Path, "Enter",
		}
		return plan
	}

	plan.LaunchCmd = []string{"tmux", "send-keys", "-t", sessionName, agentCmd, "Enter"}
	return plan
}

// exportEnvCommand serializes an ordered KEY=VALUE sequence into a single
// "export K='V' ..." shell command, single-quote-escaping each value.
func exportEnvCommand(env []EnvVar) string {
	parts := make([]string, 0, len(env))
	for _, e := range env {
		parts = append(parts, fmt.Sprintf("%s=%s", e.Key, shellQuote(e.Value)))
	}
	return "export " + strings.Join(parts, " ")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// buildLauncherScript materializes a launcher shell script at
// <workspace>/.grove/start.sh whose body is a quoted heredoc, so the prompt
// never passes through shell argv quoting.
func buildLauncherScript(workspacePath, agentCmd, prompt string) LauncherScript {
	path := filepath.Join(workspacePath, ".grove", "start.sh")
	contents := fmt.Sprintf("#!/bin/bash\n%s \"$(cat <<'%s'\n%s\n%s\n)\"\n",
		agentCmd, promptHeredocMarker, prompt, promptHeredocMarker)
	return LauncherScript{Path: path, Contents: contents}
}
