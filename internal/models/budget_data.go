package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetData holds the prior and current fiscal year budget of a project
// and account combination.
type BudgetData struct {
	DefaultModel
	ProjectCode   string          `gorm:"uniqueIndex:budget_data_project_account"`
	AccountCode   string          `gorm:"uniqueIndex:budget_data_project_account"`
	PriorBudget   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentBudget decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (BudgetData) TableName() string {
	return "budget_data"
}

func (b *BudgetData) BeforeSave(_ *gorm.DB) error {
	b.ProjectCode = strings.TrimSpace(b.ProjectCode)
	b.AccountCode = strings.TrimSpace(b.AccountCode)
	if b.ProjectCode == "" || b.AccountCode == "" {
		return ErrCodeEmpty
	}
	return nil
}

// UpsertBudgetData sets the budgets for the project and account.
func UpsertBudgetData(db *gorm.DB, data BudgetData) (created bool, err error) {
	var existing BudgetData
	tx := db.Where("project_code = ? AND account_code = ?", strings.TrimSpace(data.ProjectCode), strings.TrimSpace(data.AccountCode)).Limit(1).Find(&existing)
	if tx.Error != nil {
		return false, tx.Error
	}

	if tx.RowsAffected > 0 {
		existing.PriorBudget = data.PriorBudget
		existing.CurrentBudget = data.CurrentBudget
		return false, db.Save(&existing).Error
	}

	return true, db.Create(&data).Error
}
