package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groveworks/grove/internal/diagnostics"
)

// newRootCmd builds the small cobra surface for grove's auxiliary
// subcommands. The dashboard itself stays on stdlib flag, matched to the
// teacher's own entry point; cobra only covers the operator-facing checks
// that don't belong on the dashboard's flag set.
func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:          "grove",
		Short:        "A terminal dashboard for running coding agents across git worktrees",
		SilenceUsage: true,
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the grove version and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("grove version " + version)
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check that git, tmux, and supported agent binaries are reachable",
		RunE:  runDoctor,
	})
	return root
}

func runDoctor(cmd *cobra.Command, args []string) error {
	anyMissing := false
	for _, c := range diagnostics.CheckBinaries() {
		if !c.Found {
			anyMissing = true
			fmt.Printf("✗ %-10s not found on PATH\n", c.Name)
			continue
		}
		fmt.Printf("✓ %-10s %s\n", c.Name, c.Path)
	}
	if anyMissing {
		fmt.Println("\nMissing agent binaries only matter for the agents you actually use; git and tmux are required.")
	}
	return nil
}
