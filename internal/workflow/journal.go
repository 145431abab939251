package workflow

import (
	"fmt"
	"time"

	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/oracle"
)

// BuildJournal returns the encumbrance journal for event applied in state
// from. Submitting debits the from side of every line. Rejecting credits it
// back, as does reopening a submitted transaction. ok is false when there
// is nothing to post.
func BuildJournal(transaction models.Transaction, lines []models.TransferLine, event Event, from State, now time.Time) (oracle.Journal, bool) {
	if transaction.IsAdditionalBudget() || !encumbers(event, from) {
		return oracle.Journal{}, false
	}

	j := oracle.Journal{
		BatchName:   transaction.Code,
		JournalName: fmt.Sprintf("%s %s", transaction.Code, event),
		Description: fmt.Sprintf("Budget transfer %s", transaction.Code),
		GroupID:     fmt.Sprint(now.Unix()),
		Date:        now,
	}

	for _, line := range lines {
		if !line.FromAmount.IsPositive() {
			continue
		}

		entry := oracle.JournalLine{
			CostCenter:  line.CostCenterCode,
			Account:     line.AccountCode,
			Project:     line.ProjectCode,
			Description: line.Reason,
		}
		if event == EventSubmit {
			entry.Debit = line.FromAmount
		} else {
			entry.Credit = line.FromAmount
		}

		j.Lines = append(j.Lines, entry)
	}

	return j, len(j.Lines) > 0
}

func encumbers(event Event, from State) bool {
	switch event {
	case EventSubmit, EventReject:
		return true
	case EventReopen:
		return from.Status == models.WorkflowInProgress
	}
	return false
}
