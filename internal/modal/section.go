package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/groveworks/grove/internal/styles"
)

// Layout constants shared across modal construction and layout math.
const (
	DefaultWidth  = 50
	MinModalWidth = 20
	ModalPadding  = 6 // border(2) + horizontal padding(4)
)

// Variant colors a modal's border and title to signal intent.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// Option configures a Modal at construction time.
type Option func(*Modal)

func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// WithPrimaryAction sets the action ID returned when Enter is pressed on a
// focused element that doesn't itself produce one.
func WithPrimaryAction(action string) Option {
	return func(m *Modal) { m.primaryAction = action }
}

func WithCloseOnBackdropClick(close bool) Option {
	return func(m *Modal) { m.closeOnBackdrop = close }
}

// FocusableInfo describes one tab-stop a section registered, positioned
// relative to the section's own content origin.
type FocusableInfo struct {
	ID              string
	OffsetX, OffsetY int
	Width, Height   int
}

// RenderedSection is a section's output for one frame.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one piece of a modal's body: static text, a spacer, a button
// row, an input, a checkbox, or a nested list.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	Update(msg tea.Msg, focusID string) (action string, cmd tea.Cmd)
}

// measureHeight counts the lines in content, treating a single trailing
// newline as not adding a line and an all-newline string as empty.
func measureHeight(content string) int {
	if content == "" {
		return 0
	}
	trimmed := strings.TrimSuffix(content, "\n")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "\n") + 1
}

// textSection renders static, non-focusable text.
type textSection struct{ body string }

func Text(body string) Section { return &textSection{body: body} }

func (s *textSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: styles.Body.Width(contentWidth).Render(s.body)}
}

func (s *textSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) { return "", nil }

// spacerSection renders a single blank line.
type spacerSection struct{}

func Spacer() Section { return &spacerSection{} }

func (s *spacerSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (s *spacerSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) { return "", nil }

// customSection wraps a caller-supplied render function with an optional
// update function, for one-off sections that don't warrant their own type.
type customSection struct {
	render func(contentWidth int, focusID, hoverID string) RenderedSection
	update func(msg tea.Msg, focusID string) (string, tea.Cmd)
}

func Custom(render func(contentWidth int, focusID, hoverID string) RenderedSection, update func(msg tea.Msg, focusID string) (string, tea.Cmd)) Section {
	return &customSection{render: render, update: update}
}

func (s *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return s.render(contentWidth, focusID, hoverID)
}

func (s *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.update == nil {
		return "", nil
	}
	return s.update(msg, focusID)
}

// whenSection renders its wrapped section only while cond() is true, and
// contributes no line when it is not — callers don't need a separate spacer.
type whenSection struct {
	cond    func() bool
	wrapped Section
}

func When(cond func() bool, wrapped Section) Section {
	return &whenSection{cond: cond, wrapped: wrapped}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.wrapped.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.wrapped.Update(msg, focusID)
}

// ButtonSpec is one button within a Buttons section.
type ButtonSpec struct {
	Label  string
	Action string
	danger bool
}

// BtnOption configures a ButtonSpec.
type BtnOption func(*ButtonSpec)

// BtnDanger styles a button as a destructive action.
func BtnDanger() BtnOption {
	return func(b *ButtonSpec) { b.danger = true }
}

func Btn(label, action string, opts ...BtnOption) ButtonSpec {
	b := ButtonSpec{Label: label, Action: action}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// buttonsSection renders a horizontal row of buttons, one focusable each.
type buttonsSection struct{ buttons []ButtonSpec }

func Buttons(buttons ...ButtonSpec) Section {
	return &buttonsSection{buttons: buttons}
}

func (s *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	var parts []string
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	offsetX := 0
	for _, b := range s.buttons {
		style := styles.Button
		if b.danger {
			style = styles.ButtonDanger
		}
		if b.Action == focusID || b.Action == hoverID {
			style = styles.ButtonFocused
			if b.danger {
				style = styles.ButtonDangerFocused
			}
		}
		rendered := style.Render(b.Label)
		parts = append(parts, rendered)
		w := ansi.StringWidth(rendered)
		focusables = append(focusables, FocusableInfo{
			ID:      b.Action,
			OffsetX: offsetX,
			OffsetY: 0,
			Width:   w,
			Height:  1,
		})
		offsetX += w + 1
	}
	return RenderedSection{
		Content:    strings.Join(parts, " "),
		Focusables: focusables,
	}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || keyMsg.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.Action == focusID {
			return b.Action, nil
		}
	}
	return "", nil
}

// checkboxSection renders a togglable [ ]/[x] bound to an external bool.
type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

func (s *checkboxSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	box := "[ ]"
	if s.checked != nil && *s.checked {
		box = "[x]"
	}
	style := styles.Body
	if s.id == focusID {
		style = styles.Body.Bold(true)
	}
	content := style.Render(box + " " + s.label)
	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  ansi.StringWidth(content),
			Height: 1,
		}},
	}
}

func (s *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.id != focusID {
		return "", nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	switch keyMsg.String() {
	case "enter", " ":
		if s.checked != nil {
			*s.checked = !*s.checked
		}
		return "", nil
	}
	return "", nil
}

// inputSection pairs a label with a bubbles textinput.Model.
type inputSection struct {
	id    string
	label string
	input *textinput.Model
}

// InputWithLabel wraps an externally-owned textinput.Model as a focusable
// section, rendering label and field on one line.
func InputWithLabel(id, label string, input *textinput.Model) Section {
	return &inputSection{id: id, label: label, input: input}
}

func (s *inputSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	focused := s.id == focusID
	if focused && !s.input.Focused() {
		s.input.Focus()
	} else if !focused && s.input.Focused() {
		s.input.Blur()
	}
	line := styles.Body.Render(s.label) + " " + s.input.View()
	return RenderedSection{
		Content: line,
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  ansi.StringWidth(line),
			Height: 1,
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.id != focusID {
		return "", nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && keyMsg.String() == "enter" {
		return "", nil
	}
	var cmd tea.Cmd
	*s.input, cmd = s.input.Update(msg)
	return "", cmd
}
