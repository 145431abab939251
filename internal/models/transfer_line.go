package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransferAmountNegative = errors.New("transfer amounts must not be negative")
	ErrTransferBothSides      = errors.New("a transfer line cannot have a from and a to amount at the same time")
	ErrTransferCodesMissing   = errors.New("cost center, account and project codes are required")
)

// TransferLine moves an amount away from (FromAmount) or towards (ToAmount)
// a cost center, account and project combination. Both amounts are stored
// as non-negative magnitudes.
type TransferLine struct {
	DefaultModel
	Transaction    Transaction     `json:"-"`
	TransactionID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:transfer_line_combination"`
	CostCenterCode string          `gorm:"uniqueIndex:transfer_line_combination"`
	AccountCode    string          `gorm:"uniqueIndex:transfer_line_combination"`
	ProjectCode    string          `gorm:"uniqueIndex:transfer_line_combination;index"`
	FromAmount     decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	ToAmount       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Reason         string
}

func (l *TransferLine) BeforeSave(_ *gorm.DB) error {
	l.CostCenterCode = strings.TrimSpace(l.CostCenterCode)
	l.AccountCode = strings.TrimSpace(l.AccountCode)
	l.ProjectCode = strings.TrimSpace(l.ProjectCode)
	l.Reason = strings.TrimSpace(l.Reason)

	if l.CostCenterCode == "" || l.AccountCode == "" || l.ProjectCode == "" {
		return ErrTransferCodesMissing
	}
	return nil
}

// Validate checks the amounts of the line. Additional budget requests
// may carry negative amounts, all other transactions may not.
func (l TransferLine) Validate(additionalBudget bool) error {
	if !additionalBudget && (l.FromAmount.IsNegative() || l.ToAmount.IsNegative()) {
		return ErrTransferAmountNegative
	}

	if l.FromAmount.IsPositive() && l.ToAmount.IsPositive() {
		return ErrTransferBothSides
	}

	return nil
}

// Net returns the effect of the line on its project, to minus from.
func (l TransferLine) Net() decimal.Decimal {
	return l.ToAmount.Sub(l.FromAmount)
}
