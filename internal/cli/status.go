package cli

import (
	"github.com/spf13/cobra"

	"mergeit.dev/mergeit/internal/actions"
	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/internal/tui"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List the files that still have merge conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := git.RepoRoot("")
			if err != nil {
				return err
			}
			git.SetWorkingDir(repoRoot)

			splog := tui.NewSplog()
			defer func() { _ = splog.Close() }()

			return actions.StatusAction(cmd.Context(), git.NewRealRunnerWithDir(repoRoot), splog, repoRoot)
		},
	}
}
