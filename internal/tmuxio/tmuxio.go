// Package tmuxio abstracts the terminal multiplexer as a small capability
// interface (execute/capture/cursor/resize/paste), so the rest of Grove
// never shells out directly. The production implementation drives tmux via
// os/exec; tests use an in-memory double.
package tmuxio

import (
	"context"
	"errors"
	"strings"
)

// CursorMeta is the parsed result of capturing a session's cursor state.
type CursorMeta struct {
	Visible     bool
	X, Y        int
	Width, Height int
}

// Multiplexer is the capability interface the rest of Grove programs
// against. Capability flags tell the scheduler which operations may be
// offloaded to the background task executor.
type Multiplexer interface {
	Execute(ctx context.Context, argv []string) error
	CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscapeSequences bool) (string, error)
	CaptureCursor(ctx context.Context, session string) (CursorMeta, error)
	ResizeSession(ctx context.Context, session string, width, height int) error
	PasteBuffer(ctx context.Context, session string, text string) error
	ListSessions(ctx context.Context) ([]string, error)

	SupportsBackgroundSend() bool
	SupportsBackgroundPoll() bool
	SupportsBackgroundLaunch() bool
}

// IoErr wraps a failed multiplexer command with the argv that produced it.
type IoErr struct {
	Argv []string
	Err  error
}

func (e *IoErr) Error() string {
	return strings.Join(e.Argv, " ") + ": " + e.Err.Error()
}

func (e *IoErr) Unwrap() error { return e.Err }

// missingSessionFragments are substrings tmux emits when a session no
// longer exists; the reconciler uses IsMissingSession to detect them.
var missingSessionFragments = []string{
	"can't find session",
	"no active session found",
}

// IsMissingSession reports whether err (or its message) indicates the
// target session is gone.
func IsMissingSession(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range missingSessionFragments {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}

var ErrNoCursorOutput = errors.New("tmuxio: no cursor output")
