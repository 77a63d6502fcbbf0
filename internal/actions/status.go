package actions

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"mergeit.dev/mergeit/internal/conflict"
	mergeiterrors "mergeit.dev/mergeit/internal/errors"
	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/internal/tui"
)

// StatusAction displays the unmerged files with their remaining hunk counts
// and instructions for resolving them.
func StatusAction(ctx context.Context, runner git.Runner, splog *tui.Splog, repoRoot string) error {
	inProgress, err := runner.MergeInProgress(ctx)
	if err != nil {
		return err
	}
	if !inProgress {
		splog.Info("%s", tui.ColorGreen("No merge in progress."))
		return nil
	}

	files, err := runner.UnmergedFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		splog.Info("%s", tui.ColorGreen("No unmerged files."))
		return nil
	}

	splog.Info("%s", tui.ColorYellow("Unmerged files:"))
	for _, file := range files {
		summary := describeConflicts(filepath.Join(repoRoot, file))
		splog.Info("%s", tui.ColorRed(fmt.Sprintf("  %s  %s", file, summary)))
	}
	splog.Newline()

	splog.Info("%s", tui.ColorYellow("To resolve:"))
	splog.Info("(1) run %s to resolve a file interactively", tui.ColorCyan("mergeit resolve <file>"))
	splog.Info("(2) or run %s to take one side everywhere", tui.ColorCyan("mergeit resolve <file> --local|--base|--remote"))

	return nil
}

// describeConflicts parses a file and summarizes its remaining hunks
func describeConflicts(path string) string {
	lines, err := conflict.ReadLines(path)
	if err != nil {
		if errors.Is(err, mergeiterrors.ErrBinaryContent) {
			return "(binary)"
		}
		return "(unreadable)"
	}

	count := len(conflict.ParseMarkers(lines))
	switch count {
	case 0:
		return "(no markers, ready to stage)"
	case 1:
		return "1 conflict"
	default:
		return fmt.Sprintf("%d conflicts", count)
	}
}
