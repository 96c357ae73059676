package agent

import (
	"strings"
	"testing"

	"github.com/groveworks/grove/internal/workspace"
)

func TestBuildLaunchPlanSimple(t *testing.T) {
	req := LaunchRequest{
		ProjectName:   "grove",
		WorkspaceName: "feature-x",
		WorkspacePath: "/tmp/grove/feature-x",
		Agent:         workspace.AgentClaude,
	}
	plan := BuildLaunchPlan(req)

	wantSession := "grove-ws-grove-feature-x"
	if plan.SessionName != wantSession {
		t.Fatalf("session name: got %q want %q", plan.SessionName, wantSession)
	}
	if plan.Launcher != nil {
		t.Fatalf("expected no launcher script for promptless launch")
	}
	last := plan.LaunchCmd
	if last[len(last)-2] != "claude" {
		t.Fatalf("expected bare claude command, got %v", last)
	}
}

func TestBuildLaunchPlanSkipPermissions(t *testing.T) {
	req := LaunchRequest{
		ProjectName:     "grove",
		WorkspaceName:   "feature-x",
		WorkspacePath:   "/tmp/grove/feature-x",
		Agent:           workspace.AgentCodex,
		SkipPermissions: true,
	}
	plan := BuildLaunchPlan(req)
	found := false
	for _, arg := range plan.LaunchCmd {
		if strings.Contains(arg, "--dangerously-bypass-approvals-and-sandbox") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bypass flag in launch command, got %v", plan.LaunchCmd)
	}
}

func TestBuildLaunchPlanWithPromptUsesLauncherScript(t *testing.T) {
	req := LaunchRequest{
		ProjectName:   "grove",
		WorkspaceName: "feature-x",
		WorkspacePath: "/tmp/grove/feature-x",
		Agent:         workspace.AgentClaude,
		Prompt:        "fix the failing test",
	}
	plan := BuildLaunchPlan(req)
	if plan.Launcher == nil {
		t.Fatalf("expected launcher script to be set")
	}
	if !strings.Contains(plan.Launcher.Contents, promptHeredocMarker) {
		t.Fatalf("expected heredoc marker in launcher contents: %s", plan.Launcher.Contents)
	}
	if !strings.Contains(plan.Launcher.Contents, "fix the failing test") {
		t.Fatalf("expected prompt body in launcher contents")
	}
	if !strings.HasSuffix(plan.Launcher.Path, ".grove/start.sh") {
		t.Fatalf("expected launcher path under .grove/start.sh, got %s", plan.Launcher.Path)
	}
}

func TestBuildLaunchPlanResizesWhenCaptureDimsGiven(t *testing.T) {
	req := LaunchRequest{
		ProjectName:   "grove",
		WorkspaceName: "feature-x",
		WorkspacePath: "/tmp/grove/feature-x",
		Agent:         workspace.AgentClaude,
		CaptureCols:   120,
		CaptureRows:   40,
	}
	plan := BuildLaunchPlan(req)
	if len(plan.PreLaunchCmds) == 0 || plan.PreLaunchCmds[0][1] != "resize-window" {
		t.Fatalf("expected resize-window as first pre-launch command, got %v", plan.PreLaunchCmds)
	}
}

func TestExportEnvCommandQuoting(t *testing.T) {
	got := exportEnvCommand([]EnvVar{{Key: "GROVE_TASK", Value: "it's a test"}})
	want := `export GROVE_TASK='it'\''s a test'`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
