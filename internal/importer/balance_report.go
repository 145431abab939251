package importer

import (
	"errors"
	"strings"

	"github.com/budgetflow/backend/internal/models"
)

var ErrBalanceReportHeader = errors.New("the balance report has no CONTROL_BUDGET_NAME column")

// ParseBalanceReport parses the balance report spreadsheet of the ERP.
// The header row is searched within the first five rows since the report
// may start with title rows. Rows without a control budget name and total
// rows are skipped.
func ParseBalanceReport(data []byte) ([]models.BalanceReport, error) {
	rows, err := ReadRows(data, FormatXLSX)
	if err != nil {
		return nil, err
	}

	header := -1
	columns := map[string]int{}
	for i := 0; i < len(rows) && i < 5; i++ {
		for _, name := range rows[i] {
			if strings.TrimSpace(name) == "CONTROL_BUDGET_NAME" {
				header = i
			}
		}

		if header == i {
			for c, name := range rows[i] {
				columns[strings.TrimSpace(name)] = c
			}
			break
		}
	}

	if header < 0 {
		return nil, ErrBalanceReportHeader
	}

	text := func(r []string, name string) string {
		c, ok := columns[name]
		if !ok {
			return ""
		}
		return cell(r, c)
	}

	var reports []models.BalanceReport
	for _, r := range rows[header+1:] {
		name := text(r, "CONTROL_BUDGET_NAME")
		if name == "" || strings.EqualFold(name, "total") {
			continue
		}

		report := models.BalanceReport{
			ControlBudgetName: name,
			LedgerName:        text(r, "LEDGER_NAME"),
			Period:            text(r, "AS_OF_PERIOD"),
			Segment1:          text(r, "SEGMENT1"),
			Segment2:          text(r, "SEGMENT2"),
			Segment3:          text(r, "SEGMENT3"),
		}

		// Unparsable amounts are treated as zero like empty cells.
		report.EncumbranceYTD, _, _ = amount(text(r, "ENCUMBRANCE_PTD"))
		report.OtherYTD, _, _ = amount(text(r, "OTHER_PTD"))
		report.ActualYTD, _, _ = amount(text(r, "ACTUAL_PTD"))
		report.FundsAvailable, _, _ = amount(text(r, "FUNDS_AVAILABLE_ASOF"))
		report.BudgetYTD, _, _ = amount(text(r, "BUDGET_PTD"))

		reports = append(reports, report)
	}

	return reports, nil
}
