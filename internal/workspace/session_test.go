package workspace

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestSanitizeOnlyLowerAlnumDash(t *testing.T) {
	cases := []string{"Auth OAuth Flow!", "---", "", "feature/foo_bar", "日本語", "already-clean"}
	for _, c := range cases {
		got := Sanitize(c)
		if got == "" {
			t.Fatalf("Sanitize(%q) returned empty", c)
		}
		for _, r := range got {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Fatalf("Sanitize(%q) = %q contains disallowed rune %q", c, got, r)
			}
		}
	}
}

func TestSanitizeEmptyFallsBackToWorkspace(t *testing.T) {
	for _, c := range []string{"", "!!!", "---"} {
		if got := Sanitize(c); got != "workspace" {
			t.Errorf("Sanitize(%q) = %q, want %q", c, got, "workspace")
		}
	}
}

func TestSanitizeCollapsesAndTrims(t *testing.T) {
	got := Sanitize("  Auth//OAuth--Flow  ")
	if strings.Contains(got, "--") {
		t.Errorf("Sanitize collapsed result still has consecutive dashes: %q", got)
	}
	if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
		t.Errorf("Sanitize left a leading/trailing dash: %q", got)
	}
}

func TestSessionNameIdempotentAndPure(t *testing.T) {
	a := SessionName("my-proj", "auth-flow")
	b := SessionName("my-proj", "auth-flow")
	if a != b {
		t.Fatalf("SessionName is not pure: %q != %q", a, b)
	}
	if a != "grove-ws-my-proj-auth-flow" {
		t.Fatalf("got %q, want grove-ws-my-proj-auth-flow", a)
	}
	if c := SessionName(Sanitize("My Proj"), Sanitize("Auth Flow")); c != a {
		t.Fatalf("SessionName over sanitized inputs = %q, want %q", c, a)
	}
}

func TestSessionNameNoProject(t *testing.T) {
	got := SessionName("", "Feature X")
	if got != "grove-ws-feature-x" {
		t.Errorf("got %q, want grove-ws-feature-x", got)
	}
}

func TestGitAndShellSessionNames(t *testing.T) {
	main, git, shell := KillSessionNames("proj", "ws")
	if git != main+"-git" {
		t.Errorf("git session = %q, want %q", git, main+"-git")
	}
	if shell != main+"-shell" {
		t.Errorf("shell session = %q, want %q", shell, main+"-shell")
	}
}

// TestPropertySanitizeOutputIsAlwaysLowerAlnumDash checks, across arbitrary
// input strings, the same output-alphabet invariant TestSanitizeOnlyLowerAlnumDash
// pins down for a fixed case list.
func TestPropertySanitizeOutputIsAlwaysLowerAlnumDash(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.String().Draw(t, "label")
		got := Sanitize(label)
		if got == "" {
			t.Fatalf("Sanitize(%q) returned empty string", label)
		}
		for _, r := range got {
			if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' {
				t.Fatalf("Sanitize(%q) = %q contains disallowed rune %q", label, got, r)
			}
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Fatalf("Sanitize(%q) = %q has a leading/trailing dash", label, got)
		}
		if strings.Contains(got, "--") {
			t.Fatalf("Sanitize(%q) = %q has consecutive dashes", label, got)
		}
	})
}

// TestPropertySanitizeIsIdempotent checks that re-sanitizing an already
// sanitized name is a no-op, the invariant SessionName's doc comment relies
// on for composing project/workspace fragments.
func TestPropertySanitizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		label := rapid.String().Draw(t, "label")
		once := Sanitize(label)
		twice := Sanitize(once)
		if once != twice {
			t.Fatalf("Sanitize(%q) = %q, but Sanitize of that = %q", label, once, twice)
		}
	})
}

// TestPropertySessionNameDerivativesShareThePrefix checks that the git/shell
// companion names always extend the main session name, for any project and
// workspace label.
func TestPropertySessionNameDerivativesShareThePrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		project := rapid.String().Draw(t, "project")
		ws := rapid.String().Draw(t, "workspace")

		main, git, shell := KillSessionNames(project, ws)
		if !strings.HasPrefix(git, main) || git == main {
			t.Fatalf("git session %q does not strictly extend main %q", git, main)
		}
		if !strings.HasPrefix(shell, main) || shell == main {
			t.Fatalf("shell session %q does not strictly extend main %q", shell, main)
		}
		if SessionName(project, ws) != main {
			t.Fatalf("KillSessionNames main %q disagrees with SessionName %q", main, SessionName(project, ws))
		}
	})
}
