package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceReport is one row of the period balance report of the ERP.
// Segment1 is the cost center, Segment2 the account and Segment3 the project.
type BalanceReport struct {
	DefaultModel
	ControlBudgetName string
	LedgerName        string
	Period            string
	Segment1          string          `gorm:"index:balance_report_segments"`
	Segment2          string          `gorm:"index:balance_report_segments"`
	Segment3          string          `gorm:"index:balance_report_segments"`
	EncumbranceYTD    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	OtherYTD          decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ActualYTD         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	FundsAvailable    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	BudgetYTD         decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// FundsAvailable returns the funds available for the combination.
// ok is false when the report has no row for it.
func FundsAvailable(db *gorm.DB, costCenter, account, project string) (funds decimal.Decimal, ok bool, err error) {
	var row BalanceReport
	tx := db.
		Where("segment1 = ? AND segment2 = ? AND segment3 = ?", costCenter, account, project).
		Order("created_at DESC").
		Limit(1).
		Find(&row)
	if tx.Error != nil {
		return decimal.Zero, false, tx.Error
	}
	return row.FundsAvailable, tx.RowsAffected > 0, nil
}

// ReplaceBalanceReport deletes all rows and stores the new ones in one
// transaction.
func ReplaceBalanceReport(db *gorm.DB, rows []BalanceReport) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("1 = 1").Delete(&BalanceReport{}).Error
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, 100).Error
	})
}
