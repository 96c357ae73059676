package preview

import (
	"strings"
	"testing"
)

func TestOverlayCursorPlainLine(t *testing.T) {
	lines := []string{"hello world"}
	out := OverlayCursor(lines, CursorMeta{Visible: true, Row: 0, Col: 5})
	if out[0] != "hello| world" {
		t.Fatalf("got %q", out[0])
	}
}

func TestOverlayCursorPadsShortLine(t *testing.T) {
	lines := []string{"hi"}
	out := OverlayCursor(lines, CursorMeta{Visible: true, Row: 0, Col: 5})
	if out[0] != "hi   |" {
		t.Fatalf("got %q", out[0])
	}
}

func TestOverlayCursorPreservesEscapeSequences(t *testing.T) {
	line := "\x1b[31mred\x1b[0m text"
	out := OverlayCursor([]string{line}, CursorMeta{Visible: true, Row: 0, Col: 3})
	if !strings.Contains(out[0], "\x1b[31m") || !strings.Contains(out[0], "\x1b[0m") {
		t.Fatalf("escape sequences lost: %q", out[0])
	}
	if !strings.Contains(out[0], "red|") {
		t.Fatalf("expected glyph right after visible 'red': %q", out[0])
	}
}

func TestOverlayCursorInvisibleNoOp(t *testing.T) {
	lines := []string{"hello"}
	out := OverlayCursor(lines, CursorMeta{Visible: false})
	if out[0] != "hello" {
		t.Fatalf("expected no-op, got %q", out[0])
	}
}

func TestEscapeSequenceLenCSI(t *testing.T) {
	got := escapeSequenceLen("\x1b[1;2Hrest")
	if got != len("\x1b[1;2H") {
		t.Fatalf("got %d", got)
	}
}

func TestEscapeSequenceLenOSCTerminatedByBEL(t *testing.T) {
	got := escapeSequenceLen("\x1b]0;title\x07rest")
	if got != len("\x1b]0;title\x07") {
		t.Fatalf("got %d", got)
	}
}

func TestEscapeSequenceLenOSCTerminatedByST(t *testing.T) {
	got := escapeSequenceLen("\x1b]0;title\x1b\\rest")
	if got != len("\x1b]0;title\x1b\\") {
		t.Fatalf("got %d", got)
	}
}
