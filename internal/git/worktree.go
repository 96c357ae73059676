// Package git is the external collaborator the reducer calls for worktree
// creation, deletion, and merge/update command sequences. Discovery and
// introspection (listing existing worktrees) shells out the same way
// `git worktree list --porcelain` is meant to be consumed; the mutating
// operations (Add/Remove/Merge/UpdateFromBase) are thin sequences of real
// git subprocess invocations, not reimplemented git internals.
package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Info describes one worktree as reported by `git worktree list --porcelain`.
type Info struct {
	Path   string
	Branch string
	IsMain bool
}

// List returns every worktree linked to the repository containing dir.
func List(dir string) ([]Info, error) {
	cmd := exec.Command("git", "worktree", "list", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git worktree list: %w", err)
	}
	return parseWorktreeList(string(out)), nil
}

func parseWorktreeList(output string) []Info {
	var list []Info
	var cur Info
	first := true
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if cur.Path != "" {
				cur.IsMain = first
				list = append(list, cur)
				first = false
			}
			cur = Info{}
			continue
		}
		if path, ok := strings.CutPrefix(line, "worktree "); ok {
			cur.Path = filepath.Clean(path)
		} else if ref, ok := strings.CutPrefix(line, "branch "); ok {
			cur.Branch = strings.TrimPrefix(ref, "refs/heads/")
		}
	}
	if cur.Path != "" {
		cur.IsMain = first
		list = append(list, cur)
	}
	return list
}

// MainPath returns the repository's main (first-listed) worktree path.
func MainPath(dir string) (string, error) {
	list, err := List(dir)
	if err != nil {
		return "", err
	}
	for _, wt := range list {
		if wt.IsMain {
			return wt.Path, nil
		}
	}
	return "", fmt.Errorf("no main worktree found under %s", dir)
}

// AddRequest describes a new worktree to create.
type AddRequest struct {
	RepoPath   string
	WorktreePath string
	Branch     string
	BaseBranch string
}

// Add creates a new worktree on a new branch off BaseBranch, the same
// sequence `git worktree add -b <branch> <path> <base>` a human operator
// would run by hand.
func Add(req AddRequest) error {
	base := req.BaseBranch
	if base == "" {
		base = "HEAD"
	}
	cmd := exec.Command("git", "worktree", "add", "-b", req.Branch, req.WorktreePath, base)
	cmd.Dir = req.RepoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree add: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Remove deletes a worktree and, if force is set, discards uncommitted
// changes in it.
func Remove(repoPath, worktreePath string, force bool) error {
	args := []string{"worktree", "remove", worktreePath}
	if force {
		args = append(args, "--force")
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git worktree remove: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// DeleteBranch removes a local branch after its worktree has been removed.
func DeleteBranch(repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	cmd := exec.Command("git", "branch", flag, branch)
	cmd.Dir = repoPath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git branch %s: %w: %s", flag, err, strings.TrimSpace(string(out)))
	}
	return nil
}
