package tmuxio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	sessionPrefix    = "grove-ws-"
	defaultCacheTTL  = 300 * time.Millisecond
	batchTimeout     = 3 * time.Second
	singleTimeout    = 2 * time.Second
)

// Tmux drives a real tmux binary via os/exec. A single Tmux value is meant
// to be shared across all workspaces in a process: its capture cache and
// in-flight coordinator coalesce concurrent polls into one subprocess.
type Tmux struct {
	cache       *paneCache
	coordinator *captureCoordinator
}

func New() *Tmux {
	return &Tmux{
		cache: &paneCache{
			entries: make(map[string]cacheEntry),
			ttl:     defaultCacheTTL,
		},
		coordinator: newCaptureCoordinator(),
	}
}

func (t *Tmux) SupportsBackgroundSend() bool    { return true }
func (t *Tmux) SupportsBackgroundPoll() bool    { return true }
func (t *Tmux) SupportsBackgroundLaunch() bool  { return true }

func (t *Tmux) Execute(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return &IoErr{Argv: argv, Err: fmt.Errorf("empty argv")}
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &IoErr{Argv: argv, Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))}
	}
	return nil
}

// CaptureOutput returns the last scrollbackLines lines of session, with ANSI
// SGR sequences preserved when includeEscapeSequences is true. Plain-text
// captures bypass the batch cache (they're used for one-off status checks);
// ANSI captures for the focused preview go through the shared cache since
// many workspaces may poll in the same tick.
func (t *Tmux) CaptureOutput(ctx context.Context, session string, scrollbackLines int, includeEscapeSequences bool) (string, error) {
	if !includeEscapeSequences {
		return t.captureDirect(ctx, session, scrollbackLines, false)
	}

	if out, ok := t.cache.get(session); ok {
		return out, nil
	}

	outputs, err, ran := t.coordinator.runBatch(func() (map[string]string, error) {
		return t.batchCapture(scrollbackLines)
	})
	if !ran {
		if out, ok := t.cache.get(session); ok {
			return out, nil
		}
		return t.captureDirect(ctx, session, scrollbackLines, true)
	}
	if err != nil {
		return t.captureDirect(ctx, session, scrollbackLines, true)
	}

	t.cache.setAll(outputs)
	if out, ok := outputs[session]; ok {
		return out, nil
	}
	return t.captureDirect(ctx, session, scrollbackLines, true)
}

func (t *Tmux) captureDirect(ctx context.Context, session string, scrollbackLines int, ansi bool) (string, error) {
	argv := captureArgv(session, scrollbackLines, ansi)
	cctx, cancel := context.WithTimeout(ctx, singleTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return "", &IoErr{Argv: argv, Err: err}
	}
	return string(out), nil
}

func captureArgv(session string, scrollbackLines int, ansi bool) []string {
	argv := []string{"tmux", "capture-pane", "-p", "-N"}
	if ansi {
		argv = append(argv, "-e")
	}
	argv = append(argv, "-t", session, "-S", fmt.Sprintf("-%d", scrollbackLines))
	return argv
}

// batchCapture captures every grove-ws-* session in a single subprocess, so
// N concurrently polling workspaces cost one tmux invocation instead of N.
func (t *Tmux) batchCapture(scrollbackLines int) (map[string]string, error) {
	const delim = "===GROVE_SESSION:"
	script := fmt.Sprintf(`
for session in $(tmux list-sessions -F '#{session_name}' 2>/dev/null | grep '^%s'); do
    echo "%s$session==="
    tmux capture-pane -p -N -e -S -%d -t "$session" 2>/dev/null
done
`, sessionPrefix, delim, scrollbackLines)

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "bash", "-c", script)
	out, err := cmd.Output()
	if err != nil {
		return nil, &IoErr{Argv: []string{"bash", "-c", "<batch capture>"}, Err: err}
	}

	results := make(map[string]string)
	parts := strings.Split(string(out), delim)
	for _, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(part, "===")
		if idx == -1 {
			continue
		}
		name := part[:idx]
		content := strings.TrimPrefix(part[idx+3:], "\n")
		results[name] = content
	}
	return results, nil
}

func (t *Tmux) CaptureCursor(ctx context.Context, session string) (CursorMeta, error) {
	argv := []string{"tmux", "display-message", "-p", "-t", session,
		"#{cursor_flag} #{cursor_x} #{cursor_y} #{pane_width} #{pane_height}"}
	cctx, cancel := context.WithTimeout(ctx, singleTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return CursorMeta{}, &IoErr{Argv: argv, Err: err}
	}
	return parseCursorMeta(string(out))
}

func parseCursorMeta(s string) (CursorMeta, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 5 {
		return CursorMeta{}, ErrNoCursorOutput
	}
	var m CursorMeta
	m.Visible = fields[0] == "1"
	var err error
	if m.X, err = strconv.Atoi(fields[1]); err != nil {
		return CursorMeta{}, ErrNoCursorOutput
	}
	if m.Y, err = strconv.Atoi(fields[2]); err != nil {
		return CursorMeta{}, ErrNoCursorOutput
	}
	if m.Width, err = strconv.Atoi(fields[3]); err != nil {
		return CursorMeta{}, ErrNoCursorOutput
	}
	if m.Height, err = strconv.Atoi(fields[4]); err != nil {
		return CursorMeta{}, ErrNoCursorOutput
	}
	return m, nil
}

// ResizeSession attempts a window resize, falling back to a pane resize.
// tmux requires manual window-size mode for resize-window to take effect
// when more than one client is attached to the session's window.
func (t *Tmux) ResizeSession(ctx context.Context, session string, width, height int) error {
	_ = t.Execute(ctx, []string{"tmux", "set-option", "-t", session, "window-size", "manual"})

	w, h := strconv.Itoa(width), strconv.Itoa(height)
	if err := t.Execute(ctx, []string{"tmux", "resize-window", "-t", session, "-x", w, "-y", h}); err != nil {
		return t.Execute(ctx, []string{"tmux", "resize-pane", "-t", session, "-x", w, "-y", h})
	}
	return nil
}

// PasteBuffer loads text into a tmux paste buffer over stdin, then pastes
// it into session; this sidesteps argv length limits that send-keys -l hits
// for large payloads.
func (t *Tmux) PasteBuffer(ctx context.Context, session string, text string) error {
	cmd := exec.CommandContext(ctx, "tmux", "load-buffer", "-")
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &IoErr{Argv: []string{"tmux", "load-buffer", "-"}, Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))}
	}
	return t.Execute(ctx, []string{"tmux", "paste-buffer", "-t", session})
}

// ListSessions returns the names of every live tmux session, empty (not an
// error) when no tmux server is running.
func (t *Tmux) ListSessions(ctx context.Context) ([]string, error) {
	cctx, cancel := context.WithTimeout(ctx, singleTimeout)
	defer cancel()
	argv := []string{"tmux", "list-sessions", "-F", "#{session_name}"}
	cmd := exec.CommandContext(cctx, argv[0], argv[1:]...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 &&
			strings.Contains(strings.ToLower(string(exitErr.Stderr)), "no server running") {
			return nil, nil
		}
		return nil, &IoErr{Argv: argv, Err: err}
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

type cacheEntry struct {
	output string
	at     time.Time
}

// paneCache memoizes batch capture results for ttl, so a burst of per-
// workspace polls within one tick share a single subprocess's output.
type paneCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func (c *paneCache) get(session string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[session]; ok {
		if time.Since(e.at) < c.ttl {
			return e.output, true
		}
		delete(c.entries, session)
	}
	return "", false
}

func (c *paneCache) setAll(outputs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k := range c.entries {
		if _, ok := outputs[k]; !ok {
			delete(c.entries, k)
		}
	}
	for session, out := range outputs {
		c.entries[session] = cacheEntry{output: out, at: now}
	}
}

// captureCoordinator ensures only one batch capture runs at a time; callers
// that arrive while one is in flight wait for it and re-check the cache
// rather than starting a redundant subprocess.
type captureCoordinator struct {
	mu       sync.Mutex
	cond     *sync.Cond
	inFlight bool
}

func newCaptureCoordinator() *captureCoordinator {
	c := &captureCoordinator{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *captureCoordinator) runBatch(fn func() (map[string]string, error)) (outputs map[string]string, err error, ran bool) {
	c.mu.Lock()
	if c.inFlight {
		for c.inFlight {
			c.cond.Wait()
		}
		c.mu.Unlock()
		return nil, nil, false
	}
	c.inFlight = true
	c.mu.Unlock()

	outputs, err = fn()

	c.mu.Lock()
	c.inFlight = false
	c.cond.Broadcast()
	c.mu.Unlock()

	return outputs, err, true
}
