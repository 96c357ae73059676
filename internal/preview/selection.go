package preview

import (
	"strings"

	"github.com/rivo/uniseg"
)

// TextSelectionPoint anchors a selection endpoint in the plain-line grid,
// using grapheme-cluster-aware visual columns.
type TextSelectionPoint struct {
	Line int
	Col  int
}

// Selection is a drag-anchored range over the plain line grid.
type Selection struct {
	Anchor  TextSelectionPoint
	Cursor  TextSelectionPoint
	Started bool
}

func (s *Selection) Begin(p TextSelectionPoint) {
	s.Anchor = p
	s.Cursor = p
	s.Started = true
}

func (s *Selection) Extend(p TextSelectionPoint) {
	s.Cursor = p
}

func (s *Selection) Clear() {
	*s = Selection{}
}

// Ordered returns the selection's (start, end) in document order.
func (s *Selection) Ordered() (start, end TextSelectionPoint) {
	a, b := s.Anchor, s.Cursor
	if a.Line > b.Line || (a.Line == b.Line && a.Col > b.Col) {
		a, b = b, a
	}
	return a, b
}

// ExtractText pulls the selected text out of lines using grapheme-cluster
// visual columns for start/end offsets.
func ExtractText(lines []string, s *Selection) string {
	if !s.Started {
		return ""
	}
	start, end := s.Ordered()

	var b strings.Builder
	for lineNum := start.Line; lineNum <= end.Line && lineNum < len(lines); lineNum++ {
		if lineNum < 0 {
			continue
		}
		line := lines[lineNum]
		fromCol := 0
		toCol := visualWidth(line)
		if lineNum == start.Line {
			fromCol = start.Col
		}
		if lineNum == end.Line {
			toCol = end.Col
		}
		b.WriteString(sliceByVisualColumn(line, fromCol, toCol))
		if lineNum != end.Line {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func visualWidth(s string) int {
	return uniseg.StringWidth(s)
}

// sliceByVisualColumn returns the substring of s spanning visual columns
// [from, to), walking grapheme clusters so multi-byte/wide characters are
// never split.
func sliceByVisualColumn(s string, from, to int) string {
	var b strings.Builder
	col := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		w := uniseg.StringWidth(cluster)
		if col >= from && col < to {
			b.WriteString(cluster)
		}
		col += w
		if col >= to {
			break
		}
	}
	return b.String()
}
