package preview

import "testing"

type fakeClipboard struct {
	written string
	writeErr error
}

func (f *fakeClipboard) Write(text string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = text
	return nil
}

func (f *fakeClipboard) Read() (string, error) { return f.written, nil }

func TestCopySelectionCopiesSelectedText(t *testing.T) {
	clip := &fakeClipboard{}
	cs := NewCopySelection(clip)

	lines := []string{"hello world"}
	sel := &Selection{}
	sel.Begin(TextSelectionPoint{Line: 0, Col: 0})
	sel.Extend(TextSelectionPoint{Line: 0, Col: 5})

	if err := cs.Copy(lines, sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.written != "hello" {
		t.Fatalf("got %q", clip.written)
	}
	if cs.LastCopy() != "hello" {
		t.Fatalf("got %q", cs.LastCopy())
	}
}

func TestCopySelectionFallsBackToVisibleRange(t *testing.T) {
	clip := &fakeClipboard{}
	cs := NewCopySelection(clip)

	lines := []string{"first", "last visible line"}
	sel := &Selection{}

	if err := cs.Copy(lines, sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.written != "last visible line" {
		t.Fatalf("got %q", clip.written)
	}
}
