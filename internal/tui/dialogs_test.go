package tui

import (
	"strings"
	"testing"
)

func TestOpenSettingsDialogShowsVersionAndEventLogPath(t *testing.T) {
	m, _ := newTestModel(t)
	m.version = "v1.2.3"

	m.openSettingsDialog()

	if m.activeDialog != DialogSettings {
		t.Fatalf("expected DialogSettings active, got %v", m.activeDialog)
	}
	if m.dialog == nil {
		t.Fatalf("expected dialog to be built")
	}
	rendered := m.dialog.Render(m.width, m.height, m.mouseHandler)
	for _, want := range []string{"v1.2.3", "tmux:", "Event log:"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("settings dialog missing %q, got:\n%s", want, rendered)
		}
	}
}
