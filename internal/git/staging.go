package git

import (
	"context"
	"fmt"
	"strings"
)

// StageFile marks a path as resolved by staging it.
func StageFile(ctx context.Context, path string) error {
	return stageFile(ctx, defaultRunner, path)
}

func stageFile(ctx context.Context, r *CommandRunner, path string) error {
	_, err := r.Run(ctx, "add", "--", path)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// UnmergedFiles returns the paths that currently have merge conflicts.
func UnmergedFiles(ctx context.Context) ([]string, error) {
	return unmergedFiles(ctx, defaultRunner)
}

func unmergedFiles(ctx context.Context, r *CommandRunner) ([]string, error) {
	output, err := r.Run(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// MergeInProgress reports whether a merge, rebase or cherry-pick with
// unmerged paths is underway.
func MergeInProgress(ctx context.Context) (bool, error) {
	return mergeInProgress(ctx, defaultRunner)
}

func mergeInProgress(ctx context.Context, r *CommandRunner) (bool, error) {
	output, err := r.Run(ctx, "ls-files", "-u")
	if err != nil {
		return false, fmt.Errorf("failed to check merge state: %w", err)
	}
	return output != "", nil
}
