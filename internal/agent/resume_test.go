package agent

import (
	"testing"

	"github.com/groveworks/grove/internal/workspace"
)

func TestExtractClaudeResumeLongFlag(t *testing.T) {
	captured := "To continue this conversation, run:\n  claude --resume 8f3e2a9c-1111-4b2b-9c3d-abc123def456\n"
	got := ExtractResumeCommand(workspace.AgentClaude, captured, false)
	want := "claude --resume 8f3e2a9c-1111-4b2b-9c3d-abc123def456"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractClaudeResumeUnsafe(t *testing.T) {
	captured := "claude --resume 8f3e2a9c-1111-4b2b-9c3d-abc123def456"
	got := ExtractResumeCommand(workspace.AgentClaude, captured, true)
	want := "claude --dangerously-skip-permissions --resume 8f3e2a9c-1111-4b2b-9c3d-abc123def456"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractClaudeResumeNone(t *testing.T) {
	if got := ExtractResumeCommand(workspace.AgentClaude, "nothing to see here", false); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestExtractCodexResumeSubcommand(t *testing.T) {
	captured := "To continue, run codex resume 01976e2e-1c2b-7f3a-8b9e-0123456789ab\n"
	got := ExtractResumeCommand(workspace.AgentCodex, captured, false)
	want := "codex resume 01976e2e-1c2b-7f3a-8b9e-0123456789ab"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractCodexResumeRejectsPlaceholderToken(t *testing.T) {
	captured := "codex resume <id>\ncodex resume 01976e2e-1c2b-7f3a-8b9e-0123456789ab"
	got := ExtractResumeCommand(workspace.AgentCodex, captured, false)
	want := "codex resume 01976e2e-1c2b-7f3a-8b9e-0123456789ab"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractCodexResumeRejectsToStringArtifact(t *testing.T) {
	captured := `codex resume "session_id".to_string()`
	if got := ExtractResumeCommand(workspace.AgentCodex, captured, false); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestExtractOpenCodeResumeSession(t *testing.T) {
	captured := "Resume with: opencode -s ses_36d243142ffeYteys2MXS86Nnt"
	got := ExtractResumeCommand(workspace.AgentOpenCode, captured, true)
	want := `OPENCODE_PERMISSION='{"*":"allow"}' opencode -s ses_36d243142ffeYteys2MXS86Nnt`
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestExtractOpenCodeResumeContinue(t *testing.T) {
	captured := "run opencode --continue to pick back up"
	got := ExtractResumeCommand(workspace.AgentOpenCode, captured, false)
	if got != "opencode --continue" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractResumeUsesMostRecentMatch(t *testing.T) {
	captured := "claude --resume aaaaaa\nclaude --resume bbbbbb\n"
	got := ExtractResumeCommand(workspace.AgentClaude, captured, false)
	if got != "claude --resume bbbbbb" {
		t.Fatalf("got %q", got)
	}
}
