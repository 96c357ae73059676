package git

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// CreatePR opens a pull request for worktreePath's current branch against
// base via the gh CLI, returning the PR URL. If gh reports the PR already
// exists, the existing URL is returned with existed=true instead of an
// error.
func CreatePR(worktreePath, base, title, body string) (url string, existed bool, err error) {
	cmd := exec.Command("gh", "pr", "create", "--title", title, "--body", body, "--base", base)
	cmd.Dir = worktreePath
	out, err := cmd.CombinedOutput()
	output := string(out)
	if err != nil {
		if existingURL, found := parseExistingPRURL(output); found {
			return existingURL, true, nil
		}
		return "", false, fmt.Errorf("gh pr create: %w: %s", err, strings.TrimSpace(output))
	}
	return strings.TrimSpace(output), false, nil
}

// parseExistingPRURL extracts the PR URL from gh's "a pull request ...
// already exists: <url>" error output.
func parseExistingPRURL(output string) (string, bool) {
	const marker = "already exists:"
	idx := strings.Index(output, marker)
	if idx == -1 {
		return "", false
	}
	rest := strings.TrimSpace(output[idx+len(marker):])
	if !strings.HasPrefix(rest, "http") {
		return "", false
	}
	end := strings.Index(rest, ": exit")
	if end == -1 {
		end = strings.IndexAny(rest, " \t\n")
		if end == -1 {
			end = len(rest)
		}
	}
	url := strings.TrimSpace(rest[:end])
	if url == "" {
		return "", false
	}
	return url, true
}

// PRStatus reports a pull request's merge state as seen by gh.
type PRStatus struct {
	State    string `json:"state"`
	MergedAt string `json:"mergedAt"`
}

// Merged reports whether the PR has been merged.
func (s PRStatus) Merged() bool {
	return s.State == "MERGED" || s.MergedAt != ""
}

// CheckPR queries the open PR (if any) for worktreePath's current branch.
func CheckPR(worktreePath string) (PRStatus, error) {
	cmd := exec.Command("gh", "pr", "view", "--json", "state,mergedAt")
	cmd.Dir = worktreePath
	out, err := cmd.Output()
	if err != nil {
		return PRStatus{}, fmt.Errorf("gh pr view: %w", err)
	}
	var status PRStatus
	if err := json.Unmarshal(out, &status); err != nil {
		return PRStatus{}, fmt.Errorf("gh pr view: parsing response: %w", err)
	}
	return status, nil
}

// DeleteRemoteBranch removes branch from the origin remote.
func DeleteRemoteBranch(worktreePath, branch string) error {
	cmd := exec.Command("git", "push", "origin", "--delete", branch)
	cmd.Dir = worktreePath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git push --delete: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
