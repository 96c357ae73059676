package status

import (
	"testing"

	"github.com/groveworks/grove/internal/workspace"
)

func TestDetectStatusUnsupportedWithLiveSession(t *testing.T) {
	got := DetectStatus(DetectInput{HasLiveSession: true, SupportedAgent: false})
	if got != workspace.StatusUnsupported {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusNoSessionMain(t *testing.T) {
	got := DetectStatus(DetectInput{HasLiveSession: false, IsMain: true, SupportedAgent: true})
	if got != workspace.StatusMain {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusNoSessionIdle(t *testing.T) {
	got := DetectStatus(DetectInput{HasLiveSession: false, IsMain: false, SupportedAgent: true})
	if got != workspace.StatusIdle {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusWaitingOnAllowEditPrompt(t *testing.T) {
	got := DetectStatusFromCapture("allow edit? [y/n]", "Active", false, true, true)
	if got != workspace.StatusWaiting {
		t.Fatalf("got %v, want Waiting", got)
	}
}

func TestDetectStatusWaitingOnChevronPrompt(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"some output", "› apply this change"},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got != workspace.StatusWaiting {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusChevronBarePromptIsNotWaiting(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"› > "},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got == workspace.StatusWaiting {
		t.Fatalf("bare chevron prompt should not classify as Waiting")
	}
}

func TestDetectStatusDoneMarker(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"running tests", "Done. All good"},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got != workspace.StatusDone {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusThinkingUnclosedTag(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"<thinking>", "considering options"},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got != workspace.StatusThinking {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusThinkingClosedTagIsNotThinking(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"<thinking>", "done", "</thinking>"},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got == workspace.StatusThinking {
		t.Fatalf("closed thinking tag should not classify as Thinking")
	}
}

func TestDetectStatusErrorInTail(t *testing.T) {
	in := DetectInput{
		Lines:          []string{"panic: runtime error: nil pointer"},
		HasLiveSession: true,
		SupportedAgent: true,
	}
	if got := DetectStatus(in); got != workspace.StatusError {
		t.Fatalf("got %v", got)
	}
}

func TestDetectStatusOldErrorOutsideTailIsIgnored(t *testing.T) {
	lines := []string{"panic: old error"}
	for i := 0; i < 20; i++ {
		lines = append(lines, "normal output line")
	}
	in := DetectInput{Lines: lines, HasLiveSession: true, SupportedAgent: true}
	if got := DetectStatus(in); got == workspace.StatusError {
		t.Fatalf("error outside the tail window should be ignored")
	}
}

func TestDetectStatusDefaultsToActive(t *testing.T) {
	in := DetectInput{Lines: []string{"building project..."}, HasLiveSession: true, SupportedAgent: true}
	if got := DetectStatus(in); got != workspace.StatusActive {
		t.Fatalf("got %v", got)
	}
}
