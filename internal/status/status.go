// Package status reconciles raw tmux capture into a WorkspaceStatus per
// the 8-step decision order, and derives the adaptive poll cadence.
package status

import (
	"regexp"
	"strings"
	"time"

	"github.com/groveworks/grove/internal/workspace"
)

const (
	statusTailLines = 12
	statusWindow    = 120
)

// DetectInput bundles everything the reconciler needs about one workspace.
type DetectInput struct {
	Lines          []string
	IsMain         bool
	HasLiveSession bool
	SupportedAgent bool

	// AssistantMessageIsRecent is the session-file override:
	// true when the most recently recorded message in the agent's own
	// session log is assistant-authored and newer than the freshness
	// threshold.
	AssistantMessageIsRecent bool
}

var (
	waitPromptRe  = regexp.MustCompile(`(?i)allow edit\?|do you want to continue\?|\? for shortcuts`)
	chevronLineRe = regexp.MustCompile(`^›\s+(.*)$`)
	bareChevronRe = regexp.MustCompile(`^(>\s*|use /skills.*)$`)

	doneMarkerRe  = regexp.MustCompile(`(?i)^done\.|✓|completed successfully|build succeeded`)
	errorMarkerRe = regexp.MustCompile(`panic:|Error:|failed:`)

	thinkingOpenRe  = regexp.MustCompile(`<thinking>|<internal_monologue>`)
	thinkingCloseRe = regexp.MustCompile(`</thinking>|</internal_monologue>`)
)

// DetectStatus implements an 8-step decision order; first match wins.
func DetectStatus(in DetectInput) workspace.Status {
	if !in.SupportedAgent && in.HasLiveSession {
		return workspace.StatusUnsupported
	}
	if !in.HasLiveSession {
		if in.IsMain {
			return workspace.StatusMain
		}
		return workspace.StatusIdle
	}

	tail := lastLines(in.Lines, statusTailLines)
	if hasWaitingPrompt(tail) {
		return workspace.StatusWaiting
	}
	if in.AssistantMessageIsRecent {
		return workspace.StatusWaiting
	}

	window := lastLines(in.Lines, statusWindow)
	for _, line := range window {
		if doneMarkerRe.MatchString(line) {
			return workspace.StatusDone
		}
	}

	if hasUnclosedThinking(window) {
		return workspace.StatusThinking
	}

	for _, line := range tail {
		if errorMarkerRe.MatchString(line) {
			return workspace.StatusError
		}
	}

	return workspace.StatusActive
}

func hasWaitingPrompt(tail []string) bool {
	for _, line := range tail {
		trimmed := strings.TrimRight(line, " \t")
		if waitPromptRe.MatchString(trimmed) {
			return true
		}
		if m := chevronLineRe.FindStringSubmatch(trimmed); m != nil {
			rest := strings.TrimSpace(m[1])
			if rest != "" && !bareChevronRe.MatchString(strings.ToLower(rest)) {
				return true
			}
		}
	}
	return false
}

func hasUnclosedThinking(window []string) bool {
	open := 0
	for _, line := range window {
		open += len(thinkingOpenRe.FindAllString(line, -1))
		open -= len(thinkingCloseRe.FindAllString(line, -1))
	}
	return open > 0
}

func lastLines(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

// DetectStatusFromCapture is a convenience entry point matching the
// exemplar call shape: detect_status(capture, session_activity, is_main,
// has_live_session, supported_agent). session_activity is accepted for
// parity with that signature but carries no information DetectInput's
// has_live_session doesn't already capture.
func DetectStatusFromCapture(capture string, sessionActivity string, isMain, hasLiveSession, supportedAgent bool) workspace.Status {
	return DetectStatus(DetectInput{
		Lines:          strings.Split(capture, "\n"),
		IsMain:         isMain,
		HasLiveSession: hasLiveSession,
		SupportedAgent: supportedAgent,
	})
}

// AssistantMessageIsRecent reports whether lastMessageAt is within
// freshness of now and the message role is assistant.
func AssistantMessageIsRecent(role string, lastMessageAt, now time.Time, freshness time.Duration) bool {
	if role != "assistant" {
		return false
	}
	return now.Sub(lastMessageAt) <= freshness
}
