// Package cli implements the GridMesh command-line interface using Cobra.
// Each subcommand maps to one marketplace operation (init, register, submit,
// assign, complete, verify, stake, unstake, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridmesh",
	Short: "GridMesh — Decentralized compute marketplace",
	Long: `GridMesh is a decentralized compute marketplace control plane.
Register devices, stake tokens for tier access, submit compute tasks,
and verify results by quorum.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
