package workflow

import (
	"context"

	"github.com/budgetflow/backend/internal/models"
	"gorm.io/gorm"
)

// editable returns ErrTransactionLocked unless the transaction is pending.
func editable(db *gorm.DB, transaction models.Transaction) error {
	instance, ok, err := models.FindWorkflowInstance(db, transaction.ID)
	if err != nil {
		return err
	}

	if ok && instance.Status != models.WorkflowPending {
		return ErrTransactionLocked
	}
	return nil
}

// AddLine adds a transfer line to a pending transaction.
func (s *Service) AddLine(ctx context.Context, transaction models.Transaction, line models.TransferLine) (models.TransferLine, error) {
	line.TransactionID = transaction.ID
	if err := line.Validate(transaction.IsAdditionalBudget()); err != nil {
		return models.TransferLine{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := editable(tx, transaction); err != nil {
			return err
		}
		return tx.Create(&line).Error
	})

	return line, err
}

// UpdateLine stores the changed line of a pending transaction.
func (s *Service) UpdateLine(ctx context.Context, transaction models.Transaction, line models.TransferLine) (models.TransferLine, error) {
	line.TransactionID = transaction.ID
	if err := line.Validate(transaction.IsAdditionalBudget()); err != nil {
		return models.TransferLine{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := editable(tx, transaction); err != nil {
			return err
		}
		return tx.Save(&line).Error
	})

	return line, err
}

// DeleteLine removes a line of a pending transaction.
func (s *Service) DeleteLine(ctx context.Context, transaction models.Transaction, line models.TransferLine) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := editable(tx, transaction); err != nil {
			return err
		}
		return tx.Delete(&line).Error
	})
}

// DeleteTransaction deletes a transaction unless it is in progress or
// approved.
func (s *Service) DeleteTransaction(ctx context.Context, transaction models.Transaction) error {
	db := s.db.WithContext(ctx)

	instance, ok, err := models.FindWorkflowInstance(db, transaction.ID)
	if err != nil {
		return err
	}

	if ok && (instance.Status == models.WorkflowInProgress || instance.Status == models.WorkflowApproved) {
		return ErrTransactionLocked
	}

	return models.DeleteTransaction(db, transaction.ID)
}
