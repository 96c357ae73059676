package agent

import (
	"path/filepath"
	"strings"
)

// ClaudeProjectSlug encodes an absolute workspace path into the directory
// name Claude uses under ~/.claude/projects: '/', '.', and '_' all become
// '-'. This mirrors Claude's own project-directory naming so session files
// for a given workspace can be found without maintaining a side index.
func ClaudeProjectSlug(workspacePath string) string {
	abs, err := filepath.Abs(workspacePath)
	if err != nil {
		abs = workspacePath
	}
	slug := strings.ReplaceAll(abs, "/", "-")
	slug = strings.ReplaceAll(slug, ".", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	return slug
}
