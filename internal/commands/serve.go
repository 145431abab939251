package commands

import (
	"github.com/budgetflow/backend/internal/config"
	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/internal/jobs"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/notify"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/budgetflow/backend/internal/router"
	"github.com/budgetflow/backend/internal/workflow"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(*configFile)
			if err != nil {
				return err
			}

			return runServe(cfg)
		},
	}
}

// services wires the ERP client, notifications and the balance report job
// from the configuration.
func services(cfg config.Config) (v1.Services, error) {
	templates := workflow.DefaultTemplates()
	if cfg.WorkflowTemplates != "" {
		var err error
		templates, err = workflow.LoadTemplates(cfg.WorkflowTemplates)
		if err != nil {
			return v1.Services{}, err
		}
	}

	client := oracle.NewClient(cfg.Oracle)

	var opts []workflow.Option
	if client.Configured() {
		opts = append(opts, workflow.WithJournalUploader(client))
	} else {
		log.Warn().Msg("ORACLE_URL is not set, journals are not uploaded and the balance report cannot be refreshed")
	}

	if cfg.SMTPEnabled() {
		opts = append(opts, workflow.WithNotifier(notify.New(cfg.SMTP)))
	}

	return v1.Services{
		ControllableAccounts: cfg.ControllableAccounts,
		Templates:            templates,
		WorkflowOptions:      opts,
		BalanceReport:        jobs.NewBalanceReport(models.DB, client, cfg.ControlBudget),
	}, nil
}

func runServe(cfg config.Config) error {
	s, err := services(cfg)
	if err != nil {
		return err
	}
	v1.Configure(s)

	if cfg.BalanceReportSchedule != "" {
		scheduler, err := jobs.Schedule(s.BalanceReport, cfg.BalanceReportSchedule, cfg.TimeZone)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	r, teardown, err := router.Config(cfg.APIURL)
	defer teardown()
	if err != nil {
		return err
	}

	// The API is served at the path of the API URL
	router.AttachRoutes(r.Group(cfg.APIURL.Path))

	return r.Run()
}
