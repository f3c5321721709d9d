// Package cmd provides the command-line interface for cachecomp.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "cachecomp",
	Short: "Cachecomp simulates multiple CPUs competing for a shared " +
		"cache.",
	Long: `Cachecomp simulates multiple CPUs competing for a shared ` +
		`set-associative cache. It runs synthetic per-CPU workloads ` +
		`against a configurable replacement policy and reports per-CPU ` +
		`competition statistics at periodic heartbeats.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
