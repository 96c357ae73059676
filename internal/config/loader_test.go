package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.SidebarWidthPct != defaultSidebarPct {
		t.Errorf("got sidebar pct %d, want %d", cfg.SidebarWidthPct, defaultSidebarPct)
	}
	if !cfg.UI.ShowFooter {
		t.Error("footer should be shown by default")
	}
	if len(cfg.Projects) != 0 {
		t.Error("default config should have no known projects")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.json")
	if err != nil {
		t.Errorf("should not error on missing file: %v", err)
	}
	if cfg == nil {
		t.Error("should return default config")
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{
		"sidebar_width_pct": 45,
		"ui": {"show_footer": false}
	}`)

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.SidebarWidthPct != 45 {
		t.Errorf("got sidebar pct %d, want 45", cfg.SidebarWidthPct)
	}
	if cfg.UI.ShowFooter {
		t.Error("show_footer should be false")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{invalid`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("should error on invalid JSON")
	}
}

func TestLoadFrom_ClampsSidebarWidth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"sidebar_width_pct": 5}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.SidebarWidthPct != minSidebarWidthPct {
		t.Errorf("got %d, want clamped to %d", cfg.SidebarWidthPct, minSidebarWidthPct)
	}

	if err := os.WriteFile(path, []byte(`{"sidebar_width_pct": 150}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.SidebarWidthPct != maxSidebarWidthPct {
		t.Errorf("got %d, want clamped to %d", cfg.SidebarWidthPct, maxSidebarWidthPct)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input  string
		expect string
	}{
		{"~/projects/grove", filepath.Join(home, "projects/grove")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tc := range tests {
		got := ExpandPath(tc.input)
		if got != tc.expect {
			t.Errorf("ExpandPath(%q) = %q, want %q", tc.input, got, tc.expect)
		}
	}
}

func TestLoadFrom_ProjectsAndAcks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	projectDir := filepath.Join(dir, "myproject")
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatal(err)
	}

	content := `{
		"projects": [{"name": "My Project", "path": "` + projectDir + `"}],
		"attention_acks": [{"workspace_path": "` + projectDir + `/ws1", "marker": "m1"}]
	}`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.Projects) != 1 || cfg.Projects[0].Name != "My Project" {
		t.Fatalf("unexpected projects: %+v", cfg.Projects)
	}
	marker, ok := cfg.AckFor(projectDir + "/ws1")
	if !ok || marker != "m1" {
		t.Errorf("AckFor = %q, %v, want m1, true", marker, ok)
	}
}
