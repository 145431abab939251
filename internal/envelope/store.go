package envelope

import (
	"context"

	"github.com/budgetflow/backend/internal/hierarchy"
	"github.com/budgetflow/backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Line is a transfer line joined with the workflow status of its
// transaction.
type Line struct {
	ProjectCode    string
	AccountCode    string
	CostCenterCode string
	FromAmount     decimal.Decimal
	ToAmount       decimal.Decimal
	Status         models.WorkflowStatus
}

// Budget is the summed budget data of a project.
type Budget struct {
	Prior   decimal.Decimal
	Current decimal.Decimal
}

// Store provides the data the engine works on.
type Store interface {
	ProjectTree(ctx context.Context) (*hierarchy.Tree, error)
	AccountTree(ctx context.Context) (*hierarchy.Tree, error)
	Envelopes(ctx context.Context) (map[string]decimal.Decimal, error)
	AccountMappings(ctx context.Context) ([]Mapping, error)

	// ActiveProjects returns the distinct project codes that have transfer
	// lines matching the filter. nil projects means all projects.
	ActiveProjects(ctx context.Context, projects []string, filter Filter) ([]string, error)

	// Lines returns the lines of approved and in progress transactions for
	// the projects. nil accounts means all accounts.
	Lines(ctx context.Context, projects, accounts []string, filter Filter) ([]Line, error)

	CostCenterProjects(ctx context.Context, costCenter string) ([]string, error)
	Budgets(ctx context.Context, projects []string) (map[string]Budget, error)
	ProjectNames(ctx context.Context, projects []string) (map[string]string, error)
}

// GormStore is the Store backed by the database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ProjectTree(ctx context.Context) (*hierarchy.Tree, error) {
	return models.LoadTree[models.Project](s.db.WithContext(ctx))
}

func (s *GormStore) AccountTree(ctx context.Context) (*hierarchy.Tree, error) {
	return models.LoadTree[models.Account](s.db.WithContext(ctx))
}

func (s *GormStore) Envelopes(ctx context.Context) (map[string]decimal.Decimal, error) {
	return models.Envelopes(s.db.WithContext(ctx))
}

func (s *GormStore) AccountMappings(ctx context.Context) ([]Mapping, error) {
	var rows []models.AccountMapping
	err := s.db.WithContext(ctx).Order("source ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	mappings := make([]Mapping, 0, len(rows))
	for _, r := range rows {
		mappings = append(mappings, Mapping{Source: r.Source, Target: r.Target})
	}
	return mappings, nil
}

func (s *GormStore) filtered(ctx context.Context, filter Filter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("transfer_lines").
		Joins("JOIN transactions ON transactions.id = transfer_lines.transaction_id")

	if filter.Year != nil {
		q = q.Where("transactions.fiscal_year = ?", *filter.Year)
	}

	if filter.Month != nil {
		q = q.Where("transactions.month = ?", filter.Month.Abbreviation())
	}

	return q
}

func (s *GormStore) ActiveProjects(ctx context.Context, projects []string, filter Filter) ([]string, error) {
	if projects != nil && len(projects) == 0 {
		return []string{}, nil
	}

	q := s.filtered(ctx, filter)
	if projects != nil {
		q = q.Where("transfer_lines.project_code IN ?", projects)
	}

	var codes []string
	err := q.Distinct().Order("transfer_lines.project_code ASC").Pluck("transfer_lines.project_code", &codes).Error
	return codes, err
}

func (s *GormStore) Lines(ctx context.Context, projects, accounts []string, filter Filter) ([]Line, error) {
	if len(projects) == 0 || (accounts != nil && len(accounts) == 0) {
		return []Line{}, nil
	}

	q := s.filtered(ctx, filter).
		Select("transfer_lines.project_code, transfer_lines.account_code, transfer_lines.cost_center_code, transfer_lines.from_amount, transfer_lines.to_amount, workflow_instances.status").
		Joins("JOIN workflow_instances ON workflow_instances.transaction_id = transactions.id").
		Where("transfer_lines.project_code IN ?", projects).
		Where("workflow_instances.status IN ?", []models.WorkflowStatus{models.WorkflowApproved, models.WorkflowInProgress})

	if accounts != nil {
		q = q.Where("transfer_lines.account_code IN ?", accounts)
	}

	var lines []Line
	err := q.Scan(&lines).Error
	return lines, err
}

func (s *GormStore) CostCenterProjects(ctx context.Context, costCenter string) ([]string, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&models.TransferLine{}).
		Where("cost_center_code = ?", costCenter).
		Distinct().
		Order("project_code ASC").
		Pluck("project_code", &codes).Error
	return codes, err
}

func (s *GormStore) Budgets(ctx context.Context, projects []string) (map[string]Budget, error) {
	var rows []models.BudgetData
	err := s.db.WithContext(ctx).Where("project_code IN ?", projects).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	budgets := make(map[string]Budget)
	for _, r := range rows {
		b := budgets[r.ProjectCode]
		b.Prior = b.Prior.Add(r.PriorBudget)
		b.Current = b.Current.Add(r.CurrentBudget)
		budgets[r.ProjectCode] = b
	}
	return budgets, nil
}

func (s *GormStore) ProjectNames(ctx context.Context, projects []string) (map[string]string, error) {
	var rows []models.Project
	err := s.db.WithContext(ctx).Where("code IN ?", projects).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.Code] = r.DisplayName()
	}
	return names, nil
}
