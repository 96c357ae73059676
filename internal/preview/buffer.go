// Package preview maintains the dual plain/ANSI line buffer for an
// attached pane, the cursor overlay, scroll state, and input encoding for
// forwarding keys back to the session.
package preview

import (
	"hash/maphash"
	"strings"
)

var seed = maphash.MakeSeed()

// Buffer holds the parallel plain/render line sequences for one workspace's
// preview, plus scroll/auto-scroll state.
type Buffer struct {
	Lines       []string
	RenderLines []string
	Offset      int
	AutoScroll  bool

	lastDigest uint64
}

func NewBuffer() *Buffer {
	return &Buffer{AutoScroll: true}
}

// Apply replaces lines/renderLines and reports whether the
// cleaned plain text actually changed.
func (b *Buffer) Apply(lines, renderLines []string) (changedCleaned bool) {
	digest := digestLines(lines)
	changedCleaned = digest != b.lastDigest || b.lastDigest == 0 && len(lines) > 0
	b.lastDigest = digest

	b.Lines = lines
	b.RenderLines = renderLines
	if b.AutoScroll {
		b.Offset = 0
	}
	return changedCleaned
}

func digestLines(lines []string) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, l := range lines {
		h.WriteString(strings.TrimRight(l, " "))
		h.WriteByte('\n')
	}
	return h.Sum64()
}

// MaxScrollOffset bounds how far back the viewport may scroll.
func (b *Buffer) MaxScrollOffset(viewportHeight int) int {
	max := len(b.Lines) - viewportHeight
	if max < 0 {
		return 0
	}
	return max
}

// Scroll applies a delta to Offset, clamping to [0, MaxScrollOffset], and
// disables AutoScroll on any user-driven scroll.
func (b *Buffer) Scroll(delta, viewportHeight int) {
	b.AutoScroll = false
	b.Offset += delta
	if b.Offset < 0 {
		b.Offset = 0
	}
	if max := b.MaxScrollOffset(viewportHeight); b.Offset > max {
		b.Offset = max
	}
}

// JumpToBottom restores the live-following view.
func (b *Buffer) JumpToBottom() {
	b.Offset = 0
	b.AutoScroll = true
}
