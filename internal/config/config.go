// Package config loads and saves Grove's persisted runtime configuration:
// sidebar width, the known project list, and per-workspace attention
// acknowledgements. It is JSON-shaped and lives at a single well-known
// path under the user's config directory.
package config

// Config is the root configuration structure.
type Config struct {
	SidebarWidthPct int            `json:"sidebar_width_pct"`
	Projects        []ProjectEntry `json:"projects"`
	AttentionAcks   []AttentionAck `json:"attention_acks"`

	// Keymap and UI carry passthrough fields for the rendering toolkit and
	// project dialogs that sit outside the core engine; of these, Grove's own
	// code reads only Keymap.Overrides, applied to the key registry at startup.
	Keymap KeymapConfig `json:"keymap,omitempty"`
	UI     UIConfig     `json:"ui,omitempty"`
}

// ProjectEntry is one entry in the project switcher's known-projects list.
type ProjectEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AttentionAck records that the operator has acknowledged the current
// attention marker for a workspace, so the sidebar stops decorating it.
type AttentionAck struct {
	WorkspacePath string `json:"workspace_path"`
	Marker        string `json:"marker"`
}

// KeymapConfig holds key binding overrides layered on top of keymap.DefaultBindings.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides,omitempty"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	ShowFooter bool        `json:"show_footer"`
	Theme      ThemeConfig `json:"theme,omitempty"`
}

// ThemeConfig names a theme; the palette itself is resolved by the
// external rendering toolkit, not by this package.
type ThemeConfig struct {
	Name string `json:"name,omitempty"`
}

const (
	minSidebarWidthPct = 10
	maxSidebarWidthPct = 90
	defaultSidebarPct  = 30
)

// Default returns Grove's default configuration.
func Default() *Config {
	return &Config{
		SidebarWidthPct: defaultSidebarPct,
		Projects:        nil,
		AttentionAcks:   nil,
		Keymap:          KeymapConfig{Overrides: make(map[string]string)},
		UI: UIConfig{
			ShowFooter: true,
			Theme:      ThemeConfig{Name: "default"},
		},
	}
}

// Validate clamps out-of-range fields rather than rejecting the config
// outright, matching the tolerant-load policy the rest of Grove expects.
func (c *Config) Validate() error {
	if c.SidebarWidthPct < minSidebarWidthPct {
		c.SidebarWidthPct = minSidebarWidthPct
	}
	if c.SidebarWidthPct > maxSidebarWidthPct {
		c.SidebarWidthPct = maxSidebarWidthPct
	}
	return nil
}

// AckFor returns the acknowledged marker for workspacePath, and whether
// one exists.
func (c *Config) AckFor(workspacePath string) (marker string, ok bool) {
	for _, a := range c.AttentionAcks {
		if a.WorkspacePath == workspacePath {
			return a.Marker, true
		}
	}
	return "", false
}

// SetAck records or updates the acknowledgement for workspacePath.
func (c *Config) SetAck(workspacePath, marker string) {
	for i, a := range c.AttentionAcks {
		if a.WorkspacePath == workspacePath {
			c.AttentionAcks[i].Marker = marker
			return
		}
	}
	c.AttentionAcks = append(c.AttentionAcks, AttentionAck{WorkspacePath: workspacePath, Marker: marker})
}
