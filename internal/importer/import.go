package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/budgetflow/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrUnknownKind = errors.New("unknown upload kind")

// Kind is the type of data an upload contains.
type Kind string

const (
	KindProjects        Kind = "projects"
	KindAccounts        Kind = "accounts"
	KindEntities        Kind = "entities"
	KindEnvelopes       Kind = "envelopes"
	KindAccountMappings Kind = "account-mappings"
	KindBudgetData      Kind = "budget-data"
)

// Kinds are all supported kinds.
var Kinds = []Kind{KindProjects, KindAccounts, KindEntities, KindEnvelopes, KindAccountMappings, KindBudgetData}

// Import stores the rows of the file. All rows are imported in one
// database transaction; rows that fail are reported in the summary
// without affecting the other rows.
func Import(db *gorm.DB, kind Kind, file File) (Summary, error) {
	var importRows func(*gorm.DB, [][]string) Summary

	switch kind {
	case KindProjects:
		importRows = importCodes[models.Project]
	case KindAccounts:
		importRows = importCodes[models.Account]
	case KindEntities:
		importRows = importCodes[models.Entity]
	case KindEnvelopes:
		importRows = importEnvelopes
	case KindAccountMappings:
		importRows = importAccountMappings
	case KindBudgetData:
		importRows = importBudgetData
	default:
		return Summary{}, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}

	var summary Summary
	err := db.Transaction(func(tx *gorm.DB) error {
		summary = importRows(tx, file.Rows)
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	summary.Checksum = file.Checksum
	log.Info().
		Str("kind", string(kind)).
		Str("file", file.Name).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("duplicates", summary.Duplicates).
		Int("skipped", summary.Skipped).
		Int("errors", len(summary.Errors)).
		Msg("import finished")

	return summary, nil
}

// row runs fn in a savepoint so that a failing row does not abort the
// surrounding transaction.
func row(tx *gorm.DB, fn func(*gorm.DB) error) error {
	return tx.Transaction(fn)
}

// importCodes imports code, parent, alias rows. The first row is a header
// if its code contains no digit.
func importCodes[T models.CodeRecord](tx *gorm.DB, rows [][]string) Summary {
	summary := Summary{Errors: []RowError{}}
	first := true

	for i, r := range rows {
		if isBlank(r) {
			continue
		}

		node := models.CodeNode{Code: cell(r, 0)}
		if first {
			first = false
			if node.Code != "" && !hasDigit(node.Code) {
				continue
			}
		}

		if node.Code == "" {
			summary.Skipped++
			continue
		}

		if parent := cell(r, 1); parent != "" {
			node.Parent = &parent
		}
		if alias := cell(r, 2); alias != "" {
			node.Alias = &alias
		}

		var created bool
		err := row(tx, func(tx *gorm.DB) (err error) {
			created, err = models.UpsertCode[T](tx, node)
			return
		})
		if err != nil {
			summary.fail(i+1, node.Code, err)
			continue
		}
		summary.count(created)
	}

	return summary
}

// importEnvelopes imports project, amount rows. The project code is the
// leading number of the first cell, rows without one are skipped.
func importEnvelopes(tx *gorm.DB, rows [][]string) Summary {
	summary := Summary{Errors: []RowError{}}

	for i, r := range rows {
		if isBlank(r) {
			continue
		}

		code := projectCode(cell(r, 0))
		raw := cell(r, 1)
		if code == "" || raw == "" {
			summary.Skipped++
			continue
		}

		value, ok, err := amount(raw)
		if err != nil {
			summary.fail(i+1, code, fmt.Errorf("invalid envelope value %q", raw))
			continue
		}
		if !ok {
			summary.Skipped++
			continue
		}

		var created bool
		err = row(tx, func(tx *gorm.DB) (err error) {
			_, created, err = models.UpsertEnvelope(tx, code, value)
			return
		})
		if err != nil {
			summary.fail(i+1, code, err)
			continue
		}
		summary.count(created)
	}

	return summary
}

// importAccountMappings imports source, target rows. Existing mappings are
// counted as duplicates.
func importAccountMappings(tx *gorm.DB, rows [][]string) Summary {
	summary := Summary{Errors: []RowError{}}
	first := true

	for i, r := range rows {
		if isBlank(r) {
			continue
		}

		source, target := cell(r, 0), cell(r, 1)
		if first {
			first = false
			s, t := strings.ToLower(source), strings.ToLower(target)
			if s == "source" || s == "source_account" || t == "target" || t == "target_account" {
				continue
			}
		}

		if source == "" || target == "" {
			summary.Skipped++
			continue
		}

		var created bool
		err := row(tx, func(tx *gorm.DB) (err error) {
			_, created, err = models.GetOrCreateAccountMapping(tx, source, target)
			return
		})
		if err != nil {
			summary.fail(i+1, source, err)
			continue
		}

		if created {
			summary.Created++
		} else {
			summary.Duplicates++
		}
	}

	return summary
}

// importBudgetData imports project, account, prior budget, current budget
// rows. Empty budgets are zero.
func importBudgetData(tx *gorm.DB, rows [][]string) Summary {
	summary := Summary{Errors: []RowError{}}

	for i, r := range rows {
		if isBlank(r) {
			continue
		}

		project := projectCode(cell(r, 0))
		account := cell(r, 1)
		if project == "" || account == "" {
			summary.Skipped++
			continue
		}

		prior, _, err := amount(cell(r, 2))
		if err != nil {
			summary.fail(i+1, project, fmt.Errorf("invalid prior budget value %q", cell(r, 2)))
			continue
		}

		current, _, err := amount(cell(r, 3))
		if err != nil {
			summary.fail(i+1, project, fmt.Errorf("invalid current budget value %q", cell(r, 3)))
			continue
		}

		data := models.BudgetData{
			ProjectCode:   project,
			AccountCode:   account,
			PriorBudget:   prior,
			CurrentBudget: current,
		}

		var created bool
		err = row(tx, func(tx *gorm.DB) (err error) {
			created, err = models.UpsertBudgetData(tx, data)
			return
		})
		if err != nil {
			summary.fail(i+1, project, err)
			continue
		}
		summary.count(created)
	}

	return summary
}
