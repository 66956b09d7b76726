// Package cli implements cpqctl, the operator tool for the quote store.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/cabinet-cpq/internal/config"
	"github.com/Simplici0/cabinet-cpq/internal/logger"
)

var verbose bool

// loadConfig is replaced in tests.
var loadConfig = config.Load

var rootCmd = &cobra.Command{
	Use:   "cpqctl",
	Short: "Cabinet CPQ operator tool",
	Long: `cpqctl manages the cabinet quoting store: it applies migrations,
seeds the catalog snapshot and inspects saved quotes.

Configuration is read from the environment and .env, the same way the
server reads it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel("debug")
			return
		}
		logger.SetLevel("warn")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
