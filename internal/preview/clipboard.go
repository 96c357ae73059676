package preview

import "github.com/atotto/clipboard"

// ClipboardAccess abstracts the system clipboard so callers can inject a
// fake in tests.
type ClipboardAccess interface {
	Write(text string) error
	Read() (string, error)
}

// SystemClipboard writes through to the OS clipboard via atotto/clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Write(text string) error { return clipboard.WriteAll(text) }
func (SystemClipboard) Read() (string, error)   { return clipboard.ReadAll() }

// CopySelection copies the selected text (or, lacking a selection, only the
// last of the given lines; the visible output range is not copied) to clip, caching the most recent text as a
// fallback for callers that want last-known-good behavior on write error.
type CopySelection struct {
	clip      ClipboardAccess
	lastCopy  string
}

func NewCopySelection(clip ClipboardAccess) *CopySelection {
	return &CopySelection{clip: clip}
}

func (c *CopySelection) Copy(lines []string, sel *Selection) error {
	text := ExtractText(lines, sel)
	if text == "" && len(lines) > 0 {
		text = lines[len(lines)-1]
	}
	if err := c.clip.Write(text); err != nil {
		return err
	}
	c.lastCopy = text
	return nil
}

func (c *CopySelection) LastCopy() string { return c.lastCopy }
