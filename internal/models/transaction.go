package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Code prefixes with special handling.
const (
	PrefixAdditionalBudget = "AFR"
	PrefixFundAdjustment   = "FAD"
	PrefixFundTransfer     = "FAR"
)

var ErrTransactionCodeTooShort = errors.New("the transaction code must be at least three characters long")

// Transaction is a budget transfer request. It groups transfer lines and
// moves through the approval workflow as a whole.
type Transaction struct {
	DefaultModel
	Code        string `gorm:"uniqueIndex"`
	FiscalYear  int    `gorm:"index"`
	Month       string `gorm:"index"` // three letter abbreviation, e.g. "Jan"
	Description string
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Code = strings.TrimSpace(t.Code)
	t.Description = strings.TrimSpace(t.Description)

	if len(t.Code) < 3 {
		return ErrTransactionCodeTooShort
	}
	return nil
}

// Prefix returns the upper case business prefix of the code.
func (t Transaction) Prefix() string {
	return CodePrefix(t.Code)
}

// IsAdditionalBudget reports whether the transaction requests additional
// budget instead of moving budget between lines.
func (t Transaction) IsAdditionalBudget() bool {
	return t.Prefix() == PrefixAdditionalBudget
}

// CodePrefix returns the first three characters of code in upper case.
func CodePrefix(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < 3 {
		return strings.ToUpper(code)
	}
	return strings.ToUpper(code[:3])
}

// Lines returns the transfer lines of the transaction.
func (t Transaction) Lines(db *gorm.DB) ([]TransferLine, error) {
	var lines []TransferLine
	err := db.Where(&TransferLine{TransactionID: t.ID}).Order("created_at ASC").Find(&lines).Error
	return lines, err
}

// Workflow returns the workflow instance of the transaction. ok is false
// if the transaction has never been submitted.
func (t Transaction) Workflow(db *gorm.DB) (instance WorkflowInstance, ok bool, err error) {
	return FindWorkflowInstance(db, t.ID)
}

// DeleteTransaction removes the transaction with its lines, workflow
// instance and action log.
func DeleteTransaction(db *gorm.DB, id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var instance WorkflowInstance
		res := tx.Where(&WorkflowInstance{TransactionID: id}).Limit(1).Find(&instance)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			if err := tx.Where(&ApprovalAction{WorkflowInstanceID: instance.ID}).Delete(&ApprovalAction{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&instance).Error; err != nil {
				return err
			}
		}

		if err := tx.Where(&TransferLine{TransactionID: id}).Delete(&TransferLine{}).Error; err != nil {
			return err
		}

		return tx.Delete(&Transaction{}, id).Error
	})
}
