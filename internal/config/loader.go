package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	configDir  = ".config/grove"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary; pointer fields
// distinguish "absent from the file" from "explicitly zero".
type rawConfig struct {
	SidebarWidthPct *int           `json:"sidebar_width_pct"`
	Projects        []ProjectEntry `json:"projects"`
	AttentionAcks   []AttentionAck `json:"attention_acks"`
	Keymap          KeymapConfig   `json:"keymap"`
	UI              rawUIConfig    `json:"ui"`
}

type rawUIConfig struct {
	ShowFooter *bool       `json:"show_footer"`
	Theme      ThemeConfig `json:"theme"`
}

// Load loads configuration from the default location (or the path set by
// SetTestConfigPath, in tests).
func Load() (*Config, error) {
	return LoadFrom(resolvedConfigPath())
}

// LoadFrom loads configuration from a specific path. If path is empty,
// uses ~/.config/grove/config.json. A missing file is not an error: the
// defaults are returned as-is.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	for i := range cfg.Projects {
		cfg.Projects[i].Path = ExpandPath(cfg.Projects[i].Path)
		if _, err := os.Stat(cfg.Projects[i].Path); os.IsNotExist(err) {
			slog.Warn("configured project path not found", "name", cfg.Projects[i].Name, "path", cfg.Projects[i].Path)
		}
	}
	for i := range cfg.AttentionAcks {
		cfg.AttentionAcks[i].WorkspacePath = ExpandPath(cfg.AttentionAcks[i].WorkspacePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func mergeConfig(cfg *Config, raw *rawConfig) {
	if raw.SidebarWidthPct != nil {
		cfg.SidebarWidthPct = *raw.SidebarWidthPct
	}
	if raw.Projects != nil {
		cfg.Projects = raw.Projects
	}
	if raw.AttentionAcks != nil {
		cfg.AttentionAcks = raw.AttentionAcks
	}
	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			cfg.Keymap.Overrides[k] = v
		}
	}
	if raw.UI.ShowFooter != nil {
		cfg.UI.ShowFooter = *raw.UI.ShowFooter
	}
	if raw.UI.Theme.Name != "" {
		cfg.UI.Theme.Name = raw.UI.Theme.Name
	}
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the default path to the config file, or "" if the
// home directory cannot be resolved.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// ConfigPathDir returns the directory fsnotify should watch for a given
// config file path: the file's parent, since fsnotify watches directories.
func ConfigPathDir(path string) string {
	return filepath.Dir(path)
}
