package keymap

import "testing"

func TestResolveFallsBackToGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	cmd, ok := r.Resolve("preview", "enter")
	if !ok || cmd != "attach" {
		t.Fatalf("preview enter = %q, %v, want attach, true", cmd, ok)
	}

	cmd, ok = r.Resolve("preview", "q")
	if !ok || cmd != "quit" {
		t.Fatalf("preview q fallback = %q, %v, want quit, true", cmd, ok)
	}
}

func TestResolveContextOverridesGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	cmd, ok := r.Resolve("dialog", "enter")
	if !ok || cmd != "confirm" {
		t.Fatalf("dialog enter = %q, %v, want confirm, true", cmd, ok)
	}
}

func TestResolveUnknownMisses(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if _, ok := r.Resolve("dialog", "ctrl+z"); ok {
		t.Fatalf("expected no binding for ctrl+z in dialog context")
	}
}
