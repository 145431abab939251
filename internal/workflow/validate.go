package workflow

import (
	"errors"
	"fmt"

	"github.com/budgetflow/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotEnoughLines       = errors.New("a transfer needs at least two lines")
	ErrNoLines              = errors.New("an additional budget request needs at least one line")
	ErrLineNeedsOneSide     = errors.New("every transfer line needs either a from or a to amount")
	ErrAdditionalBudgetOnly = errors.New("lines of an additional budget request need a positive to amount")
	ErrInsufficientFunds    = errors.New("the from amount exceeds the funds available")
)

// ValidateSubmission checks that the lines of the transaction can be sent
// for approval. Funds are checked against the balance report where it has
// a row for the line's combination.
func ValidateSubmission(db *gorm.DB, transaction models.Transaction, lines []models.TransferLine) error {
	additional := transaction.IsAdditionalBudget()

	if additional && len(lines) == 0 {
		return ErrNoLines
	}
	if !additional && len(lines) < 2 {
		return ErrNotEnoughLines
	}

	for _, line := range lines {
		if err := line.Validate(additional); err != nil {
			return fmt.Errorf("%s: %w", describeLine(line), err)
		}

		if additional {
			if !line.ToAmount.IsPositive() {
				return fmt.Errorf("%s: %w", describeLine(line), ErrAdditionalBudgetOnly)
			}
			continue
		}

		if line.FromAmount.IsPositive() == line.ToAmount.IsPositive() {
			return fmt.Errorf("%s: %w", describeLine(line), ErrLineNeedsOneSide)
		}

		if !line.FromAmount.IsPositive() {
			continue
		}

		funds, ok, err := models.FundsAvailable(db, line.CostCenterCode, line.AccountCode, line.ProjectCode)
		if err != nil {
			return err
		}
		if ok && line.FromAmount.GreaterThan(funds) {
			return fmt.Errorf("%s: %w (%s available)", describeLine(line), ErrInsufficientFunds, funds.StringFixed(2))
		}
	}

	return nil
}

func describeLine(l models.TransferLine) string {
	return fmt.Sprintf("line %s/%s/%s", l.CostCenterCode, l.AccountCode, l.ProjectCode)
}
