package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

var configPathOverride string

// SetTestConfigPath redirects Load/Save to path, for tests.
func SetTestConfigPath(path string) { configPathOverride = path }

// ResetTestConfigPath restores the default config path resolution.
func ResetTestConfigPath() { configPathOverride = "" }

func resolvedConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	return ConfigPath()
}

// Save writes cfg to the config path, creating the directory if needed.
// Keys in the existing file that Config doesn't model (left by a newer
// or sibling tool) are preserved rather than clobbered.
func Save(cfg *Config) error {
	path := resolvedConfigPath()
	if path == "" {
		return os.ErrNotExist
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(existing, &merged)
	}

	managed, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var managedFields map[string]json.RawMessage
	if err := json.Unmarshal(managed, &managedFields); err != nil {
		return err
	}
	for k, v := range managedFields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SaveAck loads the persisted config, records an attention acknowledgement
// for workspacePath, and saves it back.
func SaveAck(workspacePath, marker string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.SetAck(workspacePath, marker)
	return Save(cfg)
}

// SaveSidebarWidthPct loads the persisted config, updates the sidebar
// width, and saves it back.
func SaveSidebarWidthPct(pct int) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.SidebarWidthPct = pct
	if err := cfg.Validate(); err != nil {
		return err
	}
	return Save(cfg)
}

// AddProject loads the persisted config, appends or updates a project
// entry by path, and saves it back.
func AddProject(name, path string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	for i, p := range cfg.Projects {
		if p.Path == path {
			cfg.Projects[i].Name = name
			return Save(cfg)
		}
	}
	cfg.Projects = append(cfg.Projects, ProjectEntry{Name: name, Path: path})
	return Save(cfg)
}
