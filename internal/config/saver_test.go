package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestSave_PreservesUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	initial := []byte(`{
  "prompts": [
    {"name": "My Prompt", "body": "do the thing {{ticket}}"}
  ],
  "customKey": "should survive"
}`)
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal saved config: %v", err)
	}

	if _, ok := raw["prompts"]; !ok {
		t.Error("Save() deleted 'prompts' key from config.json")
	}
	if _, ok := raw["customKey"]; !ok {
		t.Error("Save() deleted 'customKey' from config.json")
	}

	var prompts []map[string]interface{}
	if err := json.Unmarshal(raw["prompts"], &prompts); err != nil {
		t.Fatalf("unmarshal prompts: %v", err)
	}
	if len(prompts) != 1 {
		t.Errorf("got %d prompts, want 1", len(prompts))
	}

	if _, ok := raw["sidebar_width_pct"]; !ok {
		t.Error("Save() did not write 'sidebar_width_pct' key")
	}
}

func TestSave_WorksWithNoExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	cfg := Default()
	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := raw["sidebar_width_pct"]; !ok {
		t.Error("missing 'sidebar_width_pct' key")
	}
}

func TestSaveAck_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := SaveAck("/ws/a", "marker-1"); err != nil {
		t.Fatalf("SaveAck failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	marker, ok := cfg.AckFor("/ws/a")
	if !ok || marker != "marker-1" {
		t.Errorf("AckFor = %q, %v, want marker-1, true", marker, ok)
	}
}

func TestAddProject_UpdatesExistingByPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	SetTestConfigPath(path)
	defer ResetTestConfigPath()

	if err := AddProject("First Name", "/repo/a"); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}
	if err := AddProject("Renamed", "/repo/a"); err != nil {
		t.Fatalf("AddProject failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Projects) != 1 {
		t.Fatalf("got %d projects, want 1 (update in place)", len(cfg.Projects))
	}
	if cfg.Projects[0].Name != "Renamed" {
		t.Errorf("got name %q, want Renamed", cfg.Projects[0].Name)
	}
}
