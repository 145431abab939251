package envelope

import (
	"context"

	"github.com/shopspring/decimal"
)

// DashboardRow compares the prior and current budget of a project.
type DashboardRow struct {
	ProjectCode   string          `json:"project_code"`
	ProjectName   string          `json:"project_name"`
	PriorBudget   decimal.Decimal `json:"prior_budget"`
	CurrentBudget decimal.Decimal `json:"current_budget"`
	Variance      decimal.Decimal `json:"variance"`
}

// EntityDashboard returns a row for every project that has transfer lines
// on the cost center. The current budget includes all approved transfers
// of the project on any account, the variance is prior minus current.
func (e *Engine) EntityDashboard(ctx context.Context, costCenter string) ([]DashboardRow, error) {
	projects, err := e.store.CostCenterProjects(ctx, costCenter)
	if err != nil {
		return nil, e.aggregationError(costCenter, err)
	}

	rows := []DashboardRow{}
	if len(projects) == 0 {
		return rows, nil
	}

	lines, err := e.store.Lines(ctx, projects, nil, Filter{})
	if err != nil {
		return nil, e.aggregationError(costCenter, err)
	}
	totals := aggregate(projects, lines)

	budgets, err := e.store.Budgets(ctx, projects)
	if err != nil {
		return nil, e.aggregationError(costCenter, err)
	}

	names, err := e.store.ProjectNames(ctx, projects)
	if err != nil {
		return nil, e.aggregationError(costCenter, err)
	}

	for _, p := range projects {
		name, ok := names[p]
		if !ok {
			name = p
		}

		budget := budgets[p]
		current := budget.Current.Add(totals[p].Approved.Total)

		rows = append(rows, DashboardRow{
			ProjectCode:   p,
			ProjectName:   name,
			PriorBudget:   budget.Prior,
			CurrentBudget: current,
			Variance:      budget.Prior.Sub(current),
		})
	}

	return rows, nil
}
