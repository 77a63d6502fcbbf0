// Package testhelpers provides fixtures that drive a real git binary in
// temporary repositories for integration tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitRepo represents a Git repository for testing purposes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	// Initialize new repository with optimized config
	// Use git -c flags to avoid reading global config and set local configs
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Configure Git user (required for commits)
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// runGitCommand executes a git command in the repository directory.
// Uses GIT_CONFIG_GLOBAL=/dev/null to avoid reading global config for faster operations.
func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") == "" {
		cmd.Stdout = nil
		cmd.Stderr = nil
	}
	return cmd.Run()
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// RunGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes content to a file in the repository.
func (r *GitRepo) WriteFile(name, content string) error {
	filePath := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFile returns the content of a file in the repository.
func (r *GitRepo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.Dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CommitFile writes content to a file, stages it and commits.
func (r *GitRepo) CommitFile(name, content, message string) error {
	if err := r.WriteFile(name, content); err != nil {
		return err
	}
	if err := r.runGitCommand("add", name); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", message)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// MergeBranch merges a branch into the current one; a conflicting merge
// leaves marker blocks in the working tree and returns nil.
func (r *GitRepo) MergeBranch(name string) error {
	err := r.runGitCommand("merge", name)
	if err != nil {
		// A conflicted merge exits non-zero but is exactly what conflict
		// tests want; distinguish it from a real failure.
		out, statErr := r.RunGitCommandAndGetOutput("ls-files", "-u")
		if statErr == nil && out != "" {
			return nil
		}
		return fmt.Errorf("merge failed without conflicts: %w", err)
	}
	return nil
}

// CreateMergeConflict commits base content on main, diverging content on a
// branch and on main, then merges so name holds conflict markers. The merge
// produces a modify/modify conflict with all three stages present.
func (r *GitRepo) CreateMergeConflict(name, baseContent, oursContent, theirsContent string) error {
	if err := r.CommitFile(name, baseContent, "base "+name); err != nil {
		return err
	}
	if err := r.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := r.CommitFile(name, theirsContent, "theirs "+name); err != nil {
		return err
	}
	if err := r.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := r.CommitFile(name, oursContent, "ours "+name); err != nil {
		return err
	}
	return r.MergeBranch("feature")
}

// CreateAddAddConflict creates a conflict where name was added independently
// on both sides, so no base stage exists.
func (r *GitRepo) CreateAddAddConflict(name, oursContent, theirsContent string) error {
	if err := r.CommitFile("seed.txt", "seed", "seed"); err != nil {
		return err
	}
	if err := r.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := r.CommitFile(name, theirsContent, "theirs add "+name); err != nil {
		return err
	}
	if err := r.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := r.CommitFile(name, oursContent, "ours add "+name); err != nil {
		return err
	}
	return r.MergeBranch("feature")
}

// UnmergedPaths lists the paths currently carrying index conflicts.
func (r *GitRepo) UnmergedPaths() ([]string, error) {
	output, err := r.RunGitCommandAndGetOutput("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// IsStaged reports whether name has been staged with no remaining conflict entry.
func (r *GitRepo) IsStaged(name string) (bool, error) {
	unmerged, err := r.RunGitCommandAndGetOutput("ls-files", "-u", "--", name)
	if err != nil {
		return false, err
	}
	if unmerged != "" {
		return false, nil
	}
	staged, err := r.RunGitCommandAndGetOutput("diff", "--cached", "--name-only", "--", name)
	if err != nil {
		return false, err
	}
	return strings.Contains(staged, name), nil
}
