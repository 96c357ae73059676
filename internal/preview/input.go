package preview

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// InteractiveKey is the normalized key alphabet map_interactive_key
// produces from a raw tea.KeyMsg.
type InteractiveKey struct {
	Named    string // "Enter", "Up", "Escape", ...
	Ctrl     rune   // non-zero for Ctrl(char)
	Function int    // non-zero for Function(n)
	Char     rune   // non-zero for Char(c)
	AltC     bool
	AltV     bool
	Modifiers int // 1 + 1*shift + 2*alt + 4*ctrl, only meaningful with Named=="Enter"
}

// ActionKind distinguishes the InteractiveAction variants.
type ActionKind int

const (
	ActionSendNamed ActionKind = iota
	ActionSendLiteral
	ActionCopySelection
	ActionPasteClipboard
	ActionNone
)

type InteractiveAction struct {
	Kind    ActionKind
	Payload string
}

// MapInteractiveKey classifies a raw key message into the InteractiveKey
// alphabet.
func MapInteractiveKey(msg tea.KeyMsg) InteractiveKey {
	switch msg.String() {
	case "alt+c":
		return InteractiveKey{AltC: true}
	case "alt+v":
		return InteractiveKey{AltV: true}
	}

	switch msg.Type {
	case tea.KeyEnter:
		return InteractiveKey{Named: "Enter"}
	case tea.KeyUp:
		return InteractiveKey{Named: "Up"}
	case tea.KeyDown:
		return InteractiveKey{Named: "Down"}
	case tea.KeyLeft:
		return InteractiveKey{Named: "Left"}
	case tea.KeyRight:
		return InteractiveKey{Named: "Right"}
	case tea.KeyHome:
		return InteractiveKey{Named: "Home"}
	case tea.KeyEnd:
		return InteractiveKey{Named: "End"}
	case tea.KeyPgUp:
		return InteractiveKey{Named: "PPage"}
	case tea.KeyPgDown:
		return InteractiveKey{Named: "NPage"}
	case tea.KeyBackspace:
		return InteractiveKey{Named: "BSpace"}
	case tea.KeyDelete:
		return InteractiveKey{Named: "DC"}
	case tea.KeyTab:
		return InteractiveKey{Named: "Tab"}
	case tea.KeyShiftTab:
		return InteractiveKey{Named: "BTab"}
	case tea.KeyEscape:
		return InteractiveKey{Named: "Escape"}
	case tea.KeyCtrlA, tea.KeyCtrlB, tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyCtrlE,
		tea.KeyCtrlF, tea.KeyCtrlG, tea.KeyCtrlJ, tea.KeyCtrlK, tea.KeyCtrlL,
		tea.KeyCtrlN, tea.KeyCtrlO, tea.KeyCtrlP, tea.KeyCtrlQ, tea.KeyCtrlR,
		tea.KeyCtrlS, tea.KeyCtrlT, tea.KeyCtrlU, tea.KeyCtrlV, tea.KeyCtrlW,
		tea.KeyCtrlX, tea.KeyCtrlY, tea.KeyCtrlZ:
		name := msg.String()
		// tea renders these as "ctrl+x"; take the trailing rune.
		if idx := strings.LastIndex(name, "+"); idx >= 0 && idx+1 < len(name) {
			return InteractiveKey{Ctrl: rune(name[idx+1])}
		}
		return InteractiveKey{Ctrl: 0}
	case tea.KeyF1, tea.KeyF2, tea.KeyF3, tea.KeyF4, tea.KeyF5, tea.KeyF6,
		tea.KeyF7, tea.KeyF8, tea.KeyF9, tea.KeyF10, tea.KeyF11, tea.KeyF12:
		n := int(msg.Type-tea.KeyF1) + 1
		return InteractiveKey{Function: n}
	case tea.KeyRunes:
		if len(msg.Runes) > 0 {
			return InteractiveKey{Char: msg.Runes[0]}
		}
	}
	return InteractiveKey{}
}

// HandleKey converts an InteractiveKey to the action to dispatch.
func HandleKey(k InteractiveKey, shift, alt, ctrl bool) InteractiveAction {
	switch {
	case k.AltC:
		return InteractiveAction{Kind: ActionCopySelection}
	case k.AltV:
		return InteractiveAction{Kind: ActionPasteClipboard}
	case k.Named == "Enter":
		if shift || alt || ctrl {
			m := 1
			if shift {
				m += 1
			}
			if alt {
				m += 2
			}
			if ctrl {
				m += 4
			}
			return InteractiveAction{Kind: ActionSendLiteral, Payload: fmt.Sprintf("\x1b[13;%du", m)}
		}
		return InteractiveAction{Kind: ActionSendNamed, Payload: "Enter"}
	case k.Named != "":
		return InteractiveAction{Kind: ActionSendNamed, Payload: k.Named}
	case k.Ctrl != 0:
		return InteractiveAction{Kind: ActionSendNamed, Payload: "C-" + string(k.Ctrl)}
	case k.Function != 0:
		return InteractiveAction{Kind: ActionSendNamed, Payload: fmt.Sprintf("F%d", k.Function)}
	case k.Char != 0:
		return InteractiveAction{Kind: ActionSendLiteral, Payload: string(k.Char)}
	default:
		return InteractiveAction{Kind: ActionNone}
	}
}

const (
	bracketedPasteStart = "\x1b[200~"
	bracketedPasteEnd   = "\x1b[201~"
	pasteLengthThreshold = 10
)

// EncodePastePayload wraps multi-line or long text in bracketed-paste
// sentinels when bracketed is true; short single-line input passes through
// unchanged.
func EncodePastePayload(text string, bracketed bool) string {
	if !bracketed {
		return text
	}
	if !strings.Contains(text, "\n") && len(text) <= pasteLengthThreshold {
		return text
	}
	return bracketedPasteStart + text + bracketedPasteEnd
}

var sgrMouseFragmentRe = regexp.MustCompile(`^\[<\d+;\d+;\d+[Mm]`)

const (
	mouseFragmentWindow    = 10 * time.Millisecond
	mouseFragmentPersist   = 50 * time.Millisecond
)

// MouseFragmentFilter drops SGR mouse report fragments that leak into key
// input shortly after a mouse event.
type MouseFragmentFilter struct {
	lastMouseEvent time.Time
	pending        bool
	pendingSince   time.Time
}

func (f *MouseFragmentFilter) OnMouseEvent(now time.Time) {
	f.lastMouseEvent = now
}

// Filter reports whether chars should be dropped as a mouse-report
// fragment. After a fragment without its terminal M/m, later input is also
// dropped until a chunk ending in M/m arrives or mouseFragmentPersist passes.
func (f *MouseFragmentFilter) Filter(chars string, now time.Time) (drop bool) {
	if f.pending && now.Sub(f.pendingSince) <= mouseFragmentPersist {
		if strings.HasSuffix(chars, "M") || strings.HasSuffix(chars, "m") {
			f.pending = false
		}
		return true
	}
	f.pending = false

	if now.Sub(f.lastMouseEvent) > mouseFragmentWindow {
		return false
	}
	if sgrMouseFragmentRe.MatchString(chars) {
		if !strings.HasSuffix(chars, "M") && !strings.HasSuffix(chars, "m") {
			f.pending = true
			f.pendingSince = now
		}
		return true
	}
	return false
}

// DoubleEscapeTracker detects two Escape presses within 150ms.
type DoubleEscapeTracker struct {
	lastEscape time.Time
	pending    bool
}

const doubleEscapeWindow = 150 * time.Millisecond

// Press records an Escape keypress and reports whether this completes a
// double-escape (ExitInteractive) or should instead be forwarded as a
// single named Escape after the window elapses.
func (d *DoubleEscapeTracker) Press(now time.Time) (isDouble bool) {
	if d.pending && now.Sub(d.lastEscape) <= doubleEscapeWindow {
		d.pending = false
		return true
	}
	d.pending = true
	d.lastEscape = now
	return false
}
