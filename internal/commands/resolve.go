package commands

import (
	"encoding/json"
	"fmt"

	"github.com/budgetflow/backend/internal/envelope"
	"github.com/budgetflow/backend/internal/models"
	"github.com/spf13/cobra"
)

func newResolveCommand(configFile *string) *cobra.Command {
	var year, month string
	var allAccounts bool

	cmd := &cobra.Command{
		Use:   "resolve <project>",
		Short: "Print the resolved envelope of a project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configFile)
			if err != nil {
				return err
			}

			engine := envelope.NewEngine(envelope.NewGormStore(models.DB), cfg.ControllableAccounts)
			result, err := engine.Resolve(cmd.Context(), args[0], envelope.Options{
				Filter:           envelope.ParseFilter(year, month),
				ControllableOnly: !allAccounts,
			})
			if err != nil {
				return err
			}

			if result == nil {
				return fmt.Errorf("no envelope found for project %s or any of its ancestors", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "only count transactions of this fiscal year")
	cmd.Flags().StringVar(&month, "month", "", "only count transactions of this month, 1-12 or an abbreviation")
	cmd.Flags().BoolVar(&allAccounts, "all-accounts", false, "count all accounts instead of the controllable ones")

	return cmd
}
