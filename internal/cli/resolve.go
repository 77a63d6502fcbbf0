package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mergeit.dev/mergeit/internal/actions"
	"mergeit.dev/mergeit/internal/git"
	"mergeit.dev/mergeit/internal/tui"
)

// newResolveCmd creates the resolve command
func newResolveCmd() *cobra.Command {
	var (
		local  bool
		base   bool
		remote bool
		hunk   int
		manual bool
		stage  bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [file]",
		Short: "Resolve the merge conflicts in a file",
		Long: `Resolve the merge conflicts in a file.

Without flags this opens the interactive view. With --local, --base or
--remote, every remaining hunk is resolved from that side. With --hunk N
and --manual, hunk N is replaced with text read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := git.RepoRoot("")
			if err != nil {
				return err
			}
			git.SetWorkingDir(repoRoot)

			side := ""
			picked := 0
			for _, f := range []struct {
				set  bool
				name string
			}{{local, "local"}, {base, "base"}, {remote, "remote"}} {
				if f.set {
					side = f.name
					picked++
				}
			}
			if picked > 1 {
				return fmt.Errorf("--local, --base and --remote are mutually exclusive")
			}
			if manual && side != "" {
				return fmt.Errorf("--manual cannot be combined with a side flag")
			}

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			splog := tui.NewSplog()
			defer func() { _ = splog.Close() }()

			return actions.ResolveAction(cmd.Context(), actions.ResolveOptions{
				Path:     path,
				Side:     side,
				Hunk:     hunk,
				Manual:   manual,
				Stage:    stage,
				Runner:   git.NewRealRunnerWithDir(repoRoot),
				Splog:    splog,
				RepoRoot: repoRoot,
			})
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Resolve all hunks from the local (ours) side")
	cmd.Flags().BoolVar(&base, "base", false, "Resolve all hunks from the base (ancestor) side")
	cmd.Flags().BoolVar(&remote, "remote", false, "Resolve all hunks from the remote (theirs) side")
	cmd.Flags().IntVar(&hunk, "hunk", 0, "Hunk index to resolve manually (with --manual)")
	cmd.Flags().BoolVar(&manual, "manual", false, "Replace --hunk with text read from stdin")
	cmd.Flags().BoolVarP(&stage, "stage", "s", false, "Stage the file once resolved without prompting")

	return cmd
}
