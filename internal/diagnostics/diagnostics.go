// Package diagnostics checks that the external binaries Grove shells out to
// (tmux, git, the supported coding agents) are actually reachable, so both
// the `grove doctor` command and the Settings dialog can report the same
// thing.
package diagnostics

import (
	"os/exec"

	"github.com/groveworks/grove/internal/workspace"
)

// BinaryCheck is one binary's PATH-lookup result.
type BinaryCheck struct {
	Name  string
	Found bool
	Path  string
}

// CheckBinaries looks up git, tmux, and every supported agent binary on
// PATH, in a fixed, stable order.
func CheckBinaries() []BinaryCheck {
	candidates := []string{"git", "tmux", string(workspace.AgentClaude), string(workspace.AgentCodex), string(workspace.AgentOpenCode)}
	checks := make([]BinaryCheck, 0, len(candidates))
	for _, name := range candidates {
		path, err := exec.LookPath(name)
		checks = append(checks, BinaryCheck{Name: name, Found: err == nil, Path: path})
	}
	return checks
}
