package preview

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// CursorMeta describes where to paint the cursor overlay glyph.
type CursorMeta struct {
	Visible bool
	Row     int
	Col     int
}

const cursorGlyph = "|"

// OverlayCursor paints cursorGlyph at (meta.Row, meta.Col) into renderLines,
// walking escape sequences without counting them as visible columns so
// style state around the inserted glyph survives.
func OverlayCursor(renderLines []string, meta CursorMeta) []string {
	if !meta.Visible || meta.Row < 0 || meta.Row >= len(renderLines) {
		return renderLines
	}

	out := make([]string, len(renderLines))
	copy(out, renderLines)
	out[meta.Row] = insertAtVisualColumn(out[meta.Row], meta.Col, cursorGlyph)
	return out
}

// insertAtVisualColumn walks line byte-by-byte, treating CSI/OSC/DCS/PM/
// APC/SOS escape sequences as zero-width, and inserts glyph once `col`
// visible columns have been consumed. If the line is shorter than col, it
// is padded with spaces first.
func insertAtVisualColumn(line string, col int, glyph string) string {
	var b strings.Builder
	visual := 0
	i := 0
	inserted := false

	for i < len(line) {
		if visual == col && !inserted {
			b.WriteString(glyph)
			inserted = true
		}

		if line[i] == 0x1b {
			seqLen := escapeSequenceLen(line[i:])
			b.WriteString(line[i : i+seqLen])
			i += seqLen
			continue
		}

		r, size := decodeRune(line[i:])
		b.WriteString(line[i : i+size])
		visual += ansi.StringWidth(string(r))
		i += size
	}

	if !inserted {
		for visual < col {
			b.WriteByte(' ')
			visual++
		}
		b.WriteString(glyph)
	}

	return b.String()
}

func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return 0, 0
	}
	return r, size
}

// escapeSequenceLen returns the byte length of the escape sequence starting
// at s[0]=='\x1b', covering CSI, OSC, DCS/PM/APC/SOS (terminated by BEL or
// ESC \), and bare two-byte escapes.
func escapeSequenceLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}

	switch s[1] {
	case '[': // CSI ... final byte in 0x40-0x7E
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']', 'P', '^', '_', 'X': // OSC, DCS, PM, APC, SOS
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 { // BEL
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	default:
		return 2
	}
}
