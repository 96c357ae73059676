package tmuxio

import (
	"context"
	"sync"
)

// Fake is an in-memory Multiplexer double for tests: Execute calls are
// recorded rather than run, and captures/cursor reads return canned values
// set by the test.
type Fake struct {
	mu sync.Mutex

	Calls [][]string

	Outputs     map[string]string
	AnsiOutputs map[string]string
	Cursors     map[string]CursorMeta
	Sessions    []string

	ExecErr    error
	CaptureErr error
	CursorErr  error
	ListErr    error

	BackgroundSend    bool
	BackgroundPoll    bool
	BackgroundLaunch  bool
}

func NewFake() *Fake {
	return &Fake{
		Outputs:          make(map[string]string),
		AnsiOutputs:      make(map[string]string),
		Cursors:          make(map[string]CursorMeta),
		BackgroundSend:   true,
		BackgroundPoll:   true,
		BackgroundLaunch: true,
	}
}

func (f *Fake) SupportsBackgroundSend() bool   { return f.BackgroundSend }
func (f *Fake) SupportsBackgroundPoll() bool   { return f.BackgroundPoll }
func (f *Fake) SupportsBackgroundLaunch() bool { return f.BackgroundLaunch }

func (f *Fake) Execute(ctx context.Context, argv []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]string, len(argv))
	copy(cp, argv)
	f.Calls = append(f.Calls, cp)
	return f.ExecErr
}

func (f *Fake) CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscapeSequences bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CaptureErr != nil {
		return "", f.CaptureErr
	}
	if includeEscapeSequences {
		return f.AnsiOutputs[session], nil
	}
	return f.Outputs[session], nil
}

func (f *Fake) CaptureCursor(ctx context.Context, session string) (CursorMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CursorErr != nil {
		return CursorMeta{}, f.CursorErr
	}
	return f.Cursors[session], nil
}

func (f *Fake) ResizeSession(ctx context.Context, session string, width, height int) error {
	return f.Execute(ctx, []string{"tmux", "resize-window", "-t", session})
}

func (f *Fake) PasteBuffer(ctx context.Context, session string, text string) error {
	return f.Execute(ctx, []string{"tmux", "paste-buffer", "-t", session})
}

func (f *Fake) ListSessions(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Sessions, nil
}

// LastCall returns the most recently recorded Execute argv, or nil.
func (f *Fake) LastCall() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return nil
	}
	return f.Calls[len(f.Calls)-1]
}
