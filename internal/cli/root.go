// Package cli wires the cobra commands to the action layer.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mergeit",
		Short: "Mergeit is a command line tool for resolving merge conflicts one hunk at a time",
		Long: `Mergeit is a command line tool for resolving merge conflicts one hunk at a time.

It shows the local, base and remote versions of a conflicted file next to the
working tree copy, lets you pick a side per hunk (or edit a hunk by hand), and
offers to stage the file once no conflicts remain.`,
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	}

	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}
