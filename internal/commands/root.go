// Package commands implements the budgetflow command line interface.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command with all subcommands registered.
func NewRootCommand(version string) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:     "budgetflow",
		Short:   "Budget transfers with envelope control and approvals",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path of a YAML config file (default ./config.yaml if it exists)")

	rootCmd.AddCommand(
		newServeCommand(&configFile),
		newMigrateCommand(&configFile),
		newImportCommand(&configFile),
		newResolveCommand(&configFile),
	)

	return rootCmd
}
