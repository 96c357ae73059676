package workspace

import "strings"

const defaultLabel = "workspace"

// Sanitize reduces label to a tmux-session-safe fragment: non-alphanumerics
// collapse to a single '-', leading/trailing '-' are trimmed, and an empty
// result falls back to "workspace". The output contains only [a-z0-9-].
func Sanitize(label string) string {
	lower := strings.ToLower(label)

	var b strings.Builder
	b.Grow(len(lower))
	prevDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return defaultLabel
	}
	return out
}

// SessionName derives the main tmux session name for a workspace within an
// optional project: "grove-ws-[<project>-]<workspace>". It is pure and
// idempotent in its inputs: because Sanitize is idempotent,
// SessionName(p, Sanitize(w)) == SessionName(p, w).
func SessionName(projectName, workspaceName string) string {
	ws := Sanitize(workspaceName)
	if projectName == "" {
		return "grove-ws-" + ws
	}
	return "grove-ws-" + Sanitize(projectName) + "-" + ws
}

// GitSessionName is the lazygit companion session for a workspace.
func GitSessionName(projectName, workspaceName string) string {
	return SessionName(projectName, workspaceName) + "-git"
}

// ShellSessionName is the auxiliary shell session for a workspace.
func ShellSessionName(projectName, workspaceName string) string {
	return SessionName(projectName, workspaceName) + "-shell"
}

// KillSessionNames returns the triple of sessions (main, git, shell) that
// must be torn down to fully remove a workspace's tmux footprint.
func KillSessionNames(projectName, workspaceName string) (main, git, shell string) {
	return SessionName(projectName, workspaceName),
		GitSessionName(projectName, workspaceName),
		ShellSessionName(projectName, workspaceName)
}
