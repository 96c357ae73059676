package diagnostics

import "testing"

func TestCheckBinariesCoversGitTmuxAndEveryAgent(t *testing.T) {
	checks := CheckBinaries()
	if len(checks) != 5 {
		t.Fatalf("expected 5 checks, got %d: %+v", len(checks), checks)
	}
	want := map[string]bool{"git": false, "tmux": false, "claude": false, "codex": false, "opencode": false}
	for _, c := range checks {
		if _, ok := want[c.Name]; !ok {
			t.Fatalf("unexpected check name %q", c.Name)
		}
		want[c.Name] = true
		if c.Found && c.Path == "" {
			t.Fatalf("%s: Found but Path empty", c.Name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing check for %q", name)
		}
	}
}
