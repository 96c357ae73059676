// Package keymap resolves a pressed key, in a given UI context, to a
// UiCommand id. It is deliberately dumb: no key is special-cased in Go
// code, everything is table-driven so the same table drives both dispatch
// and the keybind-help overlay.
package keymap

// Binding associates a key chord with a command id within a context.
// "global" is consulted after the active context's own table misses.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry resolves (context, key) to a command id.
type Registry struct {
	byContext map[string]map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byContext: make(map[string]map[string]string)}
}

// RegisterBinding adds or overwrites a binding.
func (r *Registry) RegisterBinding(b Binding) {
	m, ok := r.byContext[b.Context]
	if !ok {
		m = make(map[string]string)
		r.byContext[b.Context] = m
	}
	m[b.Key] = b.Command
}

// Resolve looks up key in context, falling back to "global" when the
// context has no binding for it. Returns ok=false if neither has one.
func (r *Registry) Resolve(context, key string) (command string, ok bool) {
	if m, exists := r.byContext[context]; exists {
		if cmd, hit := m[key]; hit {
			return cmd, true
		}
	}
	if context != "global" {
		if m, exists := r.byContext["global"]; exists {
			if cmd, hit := m[key]; hit {
				return cmd, true
			}
		}
	}
	return "", false
}

// DefaultBindings returns Grove's built-in key table. Contexts mirror the
// reducer's precedence chain: palette, then navigation globals, then
// per-dialog contexts, then the sidebar/list default.
func DefaultBindings() []Binding {
	return []Binding{
		{Key: "q", Command: "quit", Context: "global"},
		{Key: "ctrl+c", Command: "quit", Context: "global"},
		{Key: "?", Command: "toggle-palette", Context: "global"},
		{Key: "ctrl+k", Command: "toggle-palette", Context: "global"},
		{Key: "r", Command: "refresh", Context: "global"},

		{Key: "alt+j", Command: "select-next", Context: "global"},
		{Key: "alt+k", Command: "select-prev", Context: "global"},
		{Key: "alt+[", Command: "select-prev-project", Context: "global"},
		{Key: "alt+]", Command: "select-next-project", Context: "global"},
		{Key: "j", Command: "select-next", Context: "global"},
		{Key: "down", Command: "select-next", Context: "global"},
		{Key: "k", Command: "select-prev", Context: "global"},
		{Key: "up", Command: "select-prev", Context: "global"},
		{Key: "h", Command: "focus-sidebar", Context: "global"},
		{Key: "left", Command: "focus-sidebar", Context: "global"},
		{Key: "l", Command: "focus-preview", Context: "global"},
		{Key: "right", Command: "focus-preview", Context: "global"},
		{Key: "B", Command: "toggle-sidebar", Context: "global"},
		{Key: "F", Command: "toggle-footer", Context: "global"},
		{Key: "\\", Command: "toggle-sidebar-width", Context: "global"},

		{Key: "n", Command: "create-workspace", Context: "global"},
		{Key: "e", Command: "edit-workspace", Context: "global"},
		{Key: "d", Command: "delete-workspace", Context: "global"},
		{Key: "m", Command: "merge-workspace", Context: "global"},
		{Key: "u", Command: "update-from-base", Context: "global"},
		{Key: "s", Command: "start-agent", Context: "global"},
		{Key: "x", Command: "stop-agent", Context: "global"},
		{Key: "R", Command: "restart-agent", Context: "global"},
		{Key: "enter", Command: "attach", Context: "global"},
		{Key: "g", Command: "launch-lazygit", Context: "global"},
		{Key: "!", Command: "launch-shell", Context: "global"},
		{Key: ",", Command: "open-settings", Context: "global"},
		{Key: "@", Command: "switch-project", Context: "global"},

		{Key: "ctrl+\\", Command: "exit-interactive", Context: "interactive"},
		{Key: "esc", Command: "exit-interactive-maybe", Context: "interactive"},
		{Key: "alt+c", Command: "copy-selection", Context: "interactive"},
		{Key: "alt+v", Command: "paste-clipboard", Context: "interactive"},

		{Key: "up", Command: "scroll-up", Context: "preview"},
		{Key: "down", Command: "scroll-down", Context: "preview"},
		{Key: "pgup", Command: "page-up", Context: "preview"},
		{Key: "pgdown", Command: "page-down", Context: "preview"},
		{Key: "G", Command: "jump-to-bottom", Context: "preview"},
		{Key: "enter", Command: "attach", Context: "preview"},

		{Key: "esc", Command: "cancel", Context: "dialog"},
		{Key: "tab", Command: "focus-next-field", Context: "dialog"},
		{Key: "shift+tab", Command: "focus-prev-field", Context: "dialog"},
		{Key: "enter", Command: "confirm", Context: "dialog"},

		{Key: "esc", Command: "cancel", Context: "palette"},
		{Key: "up", Command: "select-prev", Context: "palette"},
		{Key: "down", Command: "select-next", Context: "palette"},
		{Key: "enter", Command: "execute", Context: "palette"},
	}
}

// RegisterDefaults loads DefaultBindings into r.
func RegisterDefaults(r *Registry) {
	for _, b := range DefaultBindings() {
		r.RegisterBinding(b)
	}
}
