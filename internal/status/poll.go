package status

import (
	"time"

	"github.com/groveworks/grove/internal/workspace"
)

// Named timing constants (no benchmark yet justifies
// departing from them).
const (
	FastAnimationInterval    = 60 * time.Millisecond
	LocalTypingSuppress      = 250 * time.Millisecond
	TickEarlyTolerance       = 5 * time.Millisecond
	InteractiveKeyDebounce   = 30 * time.Millisecond
	PreviewPollInFlightTick  = 40 * time.Millisecond
	MaxPendingInputTraces    = 128
	AgentActivityWindowSize  = 16
)

const (
	interactiveActiveTypingWindow = 2 * time.Second
	interactiveIdleWindow         = 10 * time.Second
)

// PollStaggerMax bounds StaggerOffset: no workspace is delayed by more than
// this past its nominal due time.
const PollStaggerMax = 400 * time.Millisecond

// StaggerOffset returns a consistent, deterministic delay for name, derived
// from a cheap rolling hash of its bytes. Added on top of PollInterval's
// cadence, it spreads workspaces that share the same interval across the
// tick window instead of polling them all in the same instant.
func StaggerOffset(name string) time.Duration {
	var hash uint32
	for i := 0; i < len(name); i++ {
		hash = hash*31 + uint32(name[i])
	}
	return time.Duration(hash%uint32(PollStaggerMax/time.Millisecond)) * time.Millisecond
}

// PollInterval implements the adaptive poll-cadence table: faster while
// interactive, slower while idle, fastest while actively typing.
func PollInterval(st workspace.Status, hasLiveSession, previewFocused, interactive bool, sinceLastKey time.Duration, outputChanging bool) time.Duration {
	if interactive {
		if sinceLastKey <= interactiveActiveTypingWindow {
			return 50 * time.Millisecond
		}
		if sinceLastKey <= interactiveIdleWindow {
			return 200 * time.Millisecond
		}
	}

	if previewFocused {
		if outputChanging {
			return 500 * time.Millisecond
		}
		return 1 * time.Second
	}

	switch st {
	case workspace.StatusActive, workspace.StatusWaiting, workspace.StatusThinking:
		return 10 * time.Second
	default:
		return 20 * time.Second
	}
}

// TickDue reports whether a tick scheduled for dueAt should fire at now,
// absorbing small OS scheduler slippage.
func TickDue(now, dueAt time.Time) bool {
	return now.Add(TickEarlyTolerance).After(dueAt) || now.Add(TickEarlyTolerance).Equal(dueAt)
}

// VisualTickInterval returns FastAnimationInterval when the workspace is
// "visually working", or zero if the normal adaptive cadence should apply
// instead.
func VisualTickInterval(st workspace.Status, outputChanged, hasRecentActivityFrames bool, sinceLastKey time.Duration) time.Duration {
	if sinceLastKey < LocalTypingSuppress {
		return 0
	}
	switch {
	case st == workspace.StatusThinking:
		return FastAnimationInterval
	case st == workspace.StatusActive && (outputChanged || hasRecentActivityFrames):
		return FastAnimationInterval
	default:
		return 0
	}
}

// NextTickDeadline implements a monotonic-tick rule: a newly
// proposed deadline supersedes an existing one only if it is both in the
// future and narrower than what's already scheduled.
func NextTickDeadline(now, existing, proposed time.Time) time.Time {
	if proposed.Before(now) || proposed.Equal(now) {
		return existing
	}
	if existing.IsZero() || proposed.Before(existing) {
		return proposed
	}
	return existing
}
