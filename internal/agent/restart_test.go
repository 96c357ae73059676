package agent

import (
	"context"
	"testing"

	"github.com/groveworks/grove/internal/tmuxio"
	"github.com/groveworks/grove/internal/workspace"
)

func TestRestartInPaneOpenCodeUsesCapturedResumeCommand(t *testing.T) {
	fake := tmuxio.NewFake()
	session := "grove-ws-demo-feature"
	fake.Outputs[session] = "interrupted. resume with: opencode -s ses_36d243142ffeYteys2MXS86Nnt\n"

	err := RestartInPane(context.Background(), fake, session, workspace.AgentOpenCode, false, nil, nil, "/tmp/demo/feature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawInterrupt, sawResume bool
	for _, call := range fake.Calls {
		joined := call
		if len(joined) >= 2 && joined[len(joined)-1] == "C-c" {
			sawInterrupt = true
		}
		if len(joined) >= 2 && joined[len(joined)-2] == "opencode -s ses_36d243142ffeYteys2MXS86Nnt" {
			sawResume = true
		}
	}
	if !sawInterrupt {
		t.Fatalf("expected a C-c interrupt call, calls=%v", fake.Calls)
	}
	if !sawResume {
		t.Fatalf("expected a resume send-keys call, calls=%v", fake.Calls)
	}
}

type stubLookup struct {
	id string
	ok bool
}

func (s stubLookup) NewestSessionID(string) (string, bool) { return s.id, s.ok }

func TestRestartInPaneOpenCodeFallsBackToSqliteLookup(t *testing.T) {
	fake := tmuxio.NewFake()
	session := "grove-ws-demo-feature"
	fake.Outputs[session] = "agent exited with no visible resume hint"

	lookup := stubLookup{id: "ses_fallback123456", ok: true}
	err := RestartInPane(context.Background(), fake, session, workspace.AgentOpenCode, false, nil, lookup, "/tmp/demo/feature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, call := range fake.Calls {
		if len(call) >= 2 && call[len(call)-2] == "opencode -s ses_fallback123456" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected fallback resume command, calls=%v", fake.Calls)
	}
}

func TestRestartInPaneFailsWithoutResumeOrFallback(t *testing.T) {
	fake := tmuxio.NewFake()
	session := "grove-ws-demo-feature"
	fake.Outputs[session] = "no resume hint anywhere"

	err := RestartInPane(context.Background(), fake, session, workspace.AgentCodex, false, nil, nil, "/tmp/demo/feature")
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := err.(*RestartError); !ok {
		t.Fatalf("expected *RestartError, got %T", err)
	}
}

func TestRestartInPaneClaudeSendsSlashExit(t *testing.T) {
	fake := tmuxio.NewFake()
	session := "grove-ws-demo-feature"
	fake.Outputs[session] = "claude --resume 8f3e2a9c-1111-4b2b-9c3d-abc123def456"

	err := RestartInPane(context.Background(), fake, session, workspace.AgentClaude, false, nil, nil, "/tmp/demo/feature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.Calls) == 0 || fake.Calls[0][len(fake.Calls[0])-1] != "/exit" {
		t.Fatalf("expected first call to send /exit, calls=%v", fake.Calls)
	}
}
