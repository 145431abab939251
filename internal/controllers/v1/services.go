package v1

import (
	"github.com/budgetflow/backend/internal/envelope"
	"github.com/budgetflow/backend/internal/jobs"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/budgetflow/backend/internal/workflow"
)

// Services configures what the handlers use besides models.DB.
type Services struct {
	// ControllableAccounts are the account roots used when a resolution is
	// restricted to controllable accounts. Empty means the default roots.
	ControllableAccounts []string

	// Templates are the approval templates. The zero value means
	// workflow.DefaultTemplates.
	Templates workflow.Templates

	// WorkflowOptions wire notifications and journal uploads.
	WorkflowOptions []workflow.Option

	// BalanceReport is the refresh job. Without one, refreshes fail with
	// oracle.ErrNotConfigured.
	BalanceReport *jobs.BalanceReport
}

var services Services

// Configure sets the services for all handlers. It must be called before
// the routes serve requests.
func Configure(s Services) {
	services = s
}

// engine returns an envelope engine on the current database. It is
// stateless, so a new one per request is fine.
func engine() *envelope.Engine {
	return envelope.NewEngine(envelope.NewGormStore(models.DB), services.ControllableAccounts)
}

func workflowService() *workflow.Service {
	templates := services.Templates
	if len(templates.Default.Stages) == 0 {
		templates = workflow.DefaultTemplates()
	}

	return workflow.NewService(models.DB, templates, services.WorkflowOptions...)
}

func balanceReportJob() *jobs.BalanceReport {
	if services.BalanceReport != nil {
		return services.BalanceReport
	}

	return jobs.NewBalanceReport(models.DB, oracle.NewClient(oracle.Config{}), "")
}
