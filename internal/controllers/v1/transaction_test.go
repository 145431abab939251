package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/workflow"
	"github.com/budgetflow/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestTransactionsCreate() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-2025-0001", FiscalYear: 2025, Month: 4, Description: "Roads"})

	suite.Assert().Equal("FAR-2025-0001", t.Data.Code)
	suite.Assert().Equal("Apr", t.Data.Month.Abbreviation())
	suite.Assert().False(t.Data.AdditionalBudget)
	suite.Assert().Equal(models.WorkflowPending, t.Data.Workflow.Status)
	suite.Assert().Equal("pending", t.Data.Workflow.LegacyStatus)
	suite.Assert().Equal(1, t.Data.Workflow.Level)
	suite.Assert().Equal("standard", t.Data.Workflow.Template)
	suite.Assert().Equal(2, t.Data.Workflow.TotalStages)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/transactions/%s/submit", t.Data.ID), t.Data.Links.Submit)

	afr := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "AFR-2025-0001"})
	suite.Assert().True(afr.Data.AdditionalBudget)

	fad := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAD-2025-0001"})
	suite.Assert().Equal("fund-adjustment", fad.Data.Workflow.Template)
	suite.Assert().Equal(1, fad.Data.Workflow.TotalStages)
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-1"})

	tests := []struct {
		name string
		body string
		err  string
	}{
		{"Code too short", `[{ "code": "AB", "fiscalYear": 2025, "month": 1 }]`, models.ErrTransactionCodeTooShort.Error()},
		{"Code not unique", `[{ "code": "FAR-1", "fiscalYear": 2025, "month": "Jan" }]`, models.ErrTransactionCodeNotUnique.Error()},
		{"No month", `[{ "code": "FAR-2", "fiscalYear": 2025 }]`, "month"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.TransactionCreateResponse
			test.DecodeResponse(t, &r, &response)
			assert.Contains(t, *response.Data[0].Error, tt.err)
		})
	}

	for _, body := range []string{
		`[{ "code": "FAR-3", "fiscalYear": 2025, "month": 13 }]`,
		`[{ "fiscalYear": 2025, "month": 1 }]`,
		`{ "code": "FAR-4" }`,
	} {
		r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions", body)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetSingle() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{})
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Transaction", t.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID", "NotParseableAsUUID", http.StatusBadRequest, http.MethodGet},
		{"OPTIONS Existing Transaction", t.Data.ID.String(), http.StatusNoContent, http.MethodOptions},
		{"OPTIONS No Transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodOptions},
		{"DELETE No Transaction with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/transactions/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, t.Data.Links.Self, "")
	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data.Lines, 2)
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	pending := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-0001", FiscalYear: 2025, Month: 1, Description: "Road repairs"})
	submitted := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-0002", FiscalYear: 2025, Month: 2})
	approved := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAD-0003", FiscalYear: 2024, Month: 2})
	rejected := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-0004", FiscalYear: 2024, Month: 12})
	reopened := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAR-0005", FiscalYear: 2024, Month: 12})

	for _, t := range []v1.TransactionResponse{submitted, approved, rejected, reopened} {
		createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))
		transition(suite.T(), *t.Data, t.Data.Links.Submit)
	}
	transition(suite.T(), *approved.Data, approved.Data.Links.Approve)
	transition(suite.T(), *rejected.Data, rejected.Data.Links.Reject)
	transition(suite.T(), *reopened.Data, reopened.Data.Links.Reopen)

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"Pending, never submitted or reopened", "status=pending", []string{pending.Data.Code, reopened.Data.Code}},
		{"In progress", "status=in_progress", []string{submitted.Data.Code}},
		{"Approved", "status=approved", []string{approved.Data.Code}},
		{"Rejected", "status=rejected", []string{rejected.Data.Code}},
		{"Fiscal year", "fiscalYear=2025", []string{pending.Data.Code, submitted.Data.Code}},
		{"Month by name", "month=Dec", []string{rejected.Data.Code, reopened.Data.Code}},
		{"Month by number", "month=2", []string{submitted.Data.Code, approved.Data.Code}},
		{"Code", "code=FAD", []string{approved.Data.Code}},
		{"Search in description", "search=repairs", []string{pending.Data.Code}},
		{"Fiscal year and status", "fiscalYear=2024&status=pending", []string{reopened.Data.Code}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)

			codes := make([]string, 0, len(response.Data))
			for _, transaction := range response.Data {
				codes = append(codes, transaction.Code)
			}
			assert.ElementsMatch(t, tt.codes, codes)
			assert.Equal(t, int64(len(tt.codes)), response.Pagination.Total)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions?month=Smarch", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestTransferLines() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{})

	created := createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))
	suite.Require().Len(created.Data, 2)
	line := created.Data[0].Data
	suite.Assert().Equal(t.Data.ID, line.TransactionID)
	suite.Assert().Equal(fmt.Sprintf("%s/lines/%s", t.Data.Links.Self, line.ID), line.Links.Self)

	// Invalid lines are reported per line
	invalid := createTestLines(suite.T(), *t.Data, []v1.TransferLineEditable{
		{CostCenter: "10001", Account: "5110101", Project: "9100003", FromAmount: decimal.NewFromInt(1), ToAmount: decimal.NewFromInt(1)},
		{CostCenter: "10001", Account: "5110101", Project: "9100004", FromAmount: decimal.NewFromInt(-1)},
		{CostCenter: "10001", Account: "5110101", Project: "9100001", ToAmount: decimal.NewFromInt(1)},
		{Account: "5110101", Project: "9100005", ToAmount: decimal.NewFromInt(1)},
	}, http.StatusBadRequest)
	suite.Require().Len(invalid.Data, 4)
	suite.Assert().Contains(*invalid.Data[0].Error, models.ErrTransferBothSides.Error())
	suite.Assert().Contains(*invalid.Data[1].Error, models.ErrTransferAmountNegative.Error())
	suite.Assert().Contains(*invalid.Data[2].Error, models.ErrTransferLineNotUnique.Error())
	suite.Assert().Contains(*invalid.Data[3].Error, models.ErrTransferCodesMissing.Error())

	r := test.Request(suite.T(), http.MethodGet, t.Data.Links.Lines, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	var lines v1.TransferLineListResponse
	test.DecodeResponse(suite.T(), &r, &lines)
	suite.Assert().Len(lines.Data, 2)

	// Only the reason changes
	r = test.Request(suite.T(), http.MethodPatch, line.Links.Self, map[string]any{"reason": "Changed plans"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	var updated v1.TransferLineResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("Changed plans", updated.Data.Reason)
	suite.Assert().True(decimal.NewFromInt(10).Equal(updated.Data.FromAmount))

	r = test.Request(suite.T(), http.MethodPatch, line.Links.Self, map[string]any{"toAmount": "5"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("%s/lines/%s", t.Data.Links.Self, uuid.New()), map[string]any{"reason": "x"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodOptions, line.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, PATCH, DELETE", r.Header().Get("allow"))

	r = test.Request(suite.T(), http.MethodDelete, line.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodDelete, line.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestTransactionsApproval walks a transaction through both stages of the
// standard template.
func (suite *TestSuiteStandard) TestTransactionsApproval() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{})

	// A transfer needs at least two lines
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10)[:1])
	response := transition(suite.T(), *t.Data, t.Data.Links.Submit, http.StatusBadRequest)
	suite.Assert().Equal(workflow.ErrNotEnoughLines.Error(), *response.Error)

	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10)[1:])

	// Approving a pending transaction is not possible
	transition(suite.T(), *t.Data, t.Data.Links.Approve, http.StatusConflict)

	steps := []struct {
		url    string
		status models.WorkflowStatus
		legacy string
		level  int
		stage  int
		name   string
	}{
		{t.Data.Links.Submit, models.WorkflowInProgress, "submitted", 2, 1, "budget-review"},
		{t.Data.Links.Approve, models.WorkflowInProgress, "submitted", 3, 2, "finance-approval"},
		{t.Data.Links.Approve, models.WorkflowApproved, "approved", 4, 2, ""},
	}

	for _, step := range steps {
		response := transition(suite.T(), *t.Data, step.url)
		suite.Assert().Equal(step.status, response.Data.Workflow.Status)
		suite.Assert().Equal(step.legacy, response.Data.Workflow.LegacyStatus)
		suite.Assert().Equal(step.level, response.Data.Workflow.Level)
		suite.Assert().Equal(step.stage, response.Data.Workflow.Stage)
		suite.Assert().Equal(step.name, response.Data.Workflow.StageName)
		suite.Assert().Len(response.Data.Lines, 2)
	}

	// Approved is final
	for _, url := range []string{t.Data.Links.Submit, t.Data.Links.Approve, t.Data.Links.Reject, t.Data.Links.Reopen} {
		transition(suite.T(), *t.Data, url, http.StatusConflict)
	}

	r := test.Request(suite.T(), http.MethodGet, t.Data.Links.Actions, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	var actions v1.ApprovalActionListResponse
	test.DecodeResponse(suite.T(), &r, &actions)
	suite.Require().Len(actions.Data, 3)
	suite.Assert().Equal("submit", actions.Data[0].Action)
	suite.Assert().Equal("j.doe", actions.Data[0].Actor)
	suite.Assert().Equal(models.WorkflowPending, actions.Data[0].FromStatus)
	suite.Assert().Equal(models.WorkflowApproved, actions.Data[2].ToStatus)

	// Lines of approved transactions cannot be changed and the
	// transaction cannot be deleted
	createTestLines(suite.T(), *t.Data, transferLines("9200001", "9200002", 10), http.StatusConflict)
	r = test.Request(suite.T(), http.MethodDelete, t.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)
}

func (suite *TestSuiteStandard) TestTransactionsFundAdjustment() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "FAD-0001"})
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))

	transition(suite.T(), *t.Data, t.Data.Links.Submit)
	response := transition(suite.T(), *t.Data, t.Data.Links.Approve)
	suite.Assert().Equal(models.WorkflowApproved, response.Data.Workflow.Status)
	suite.Assert().Equal(3, response.Data.Workflow.Level)
}

func (suite *TestSuiteStandard) TestTransactionsAdditionalBudget() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{Code: "AFR-0001"})

	response := transition(suite.T(), *t.Data, t.Data.Links.Submit, http.StatusBadRequest)
	suite.Assert().Equal(workflow.ErrNoLines.Error(), *response.Error)

	createTestLines(suite.T(), *t.Data, []v1.TransferLineEditable{
		{CostCenter: "10001", Account: "5110101", Project: "9100001", ToAmount: decimal.NewFromInt(500)},
	})
	response = transition(suite.T(), *t.Data, t.Data.Links.Submit)
	suite.Assert().Equal(models.WorkflowInProgress, response.Data.Workflow.Status)
}

func (suite *TestSuiteStandard) TestTransactionsInsufficientFunds() {
	err := models.DB.Create(&models.BalanceReport{
		Segment1:       "10001",
		Segment2:       "5110101",
		Segment3:       "9100001",
		FundsAvailable: decimal.NewFromInt(50),
	}).Error
	suite.Require().Nil(err)

	t := createTestTransaction(suite.T(), v1.TransactionEditable{})
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 100))

	response := transition(suite.T(), *t.Data, t.Data.Links.Submit, http.StatusBadRequest)
	suite.Assert().Contains(*response.Error, workflow.ErrInsufficientFunds.Error())

	// Lowering the amount to the funds available is fine
	lines := createTestLines(suite.T(), *createTestTransaction(suite.T(), v1.TransactionEditable{}).Data, transferLines("9100001", "9100002", 50))
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/transactions/%s/submit", lines.Data[0].Data.TransactionID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestTransactionsRejectReopen() {
	t := createTestTransaction(suite.T(), v1.TransactionEditable{})
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))

	// Reopening during the first stage returns to pending, lines are editable again
	transition(suite.T(), *t.Data, t.Data.Links.Submit)
	createTestLines(suite.T(), *t.Data, transferLines("9200001", "9200002", 10), http.StatusConflict)
	response := transition(suite.T(), *t.Data, t.Data.Links.Reopen)
	suite.Assert().Equal(models.WorkflowPending, response.Data.Workflow.Status)
	createTestLines(suite.T(), *t.Data, transferLines("9200001", "9200002", 10))

	// After the first approval, the transaction cannot be reopened
	transition(suite.T(), *t.Data, t.Data.Links.Submit)
	transition(suite.T(), *t.Data, t.Data.Links.Approve)
	transition(suite.T(), *t.Data, t.Data.Links.Reopen, http.StatusConflict)

	// A transaction in progress cannot be deleted, a rejected one can
	r := test.Request(suite.T(), http.MethodDelete, t.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	response = transition(suite.T(), *t.Data, t.Data.Links.Reject)
	suite.Assert().Equal(models.WorkflowRejected, response.Data.Workflow.Status)
	suite.Assert().Equal(0, response.Data.Workflow.Level)
	suite.Assert().Equal("rejected", response.Data.Workflow.LegacyStatus)

	r = test.Request(suite.T(), http.MethodDelete, t.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, t.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestTransactionsTransitionErrors() {
	r := test.Request(suite.T(), http.MethodPost, fmt.Sprintf("http://example.com/v1/transactions/%s/submit", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)

	r = test.Request(suite.T(), http.MethodPost, "http://example.com/v1/transactions/NotAUUID/approve", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	t := createTestTransaction(suite.T(), v1.TransactionEditable{})
	r = test.Request(suite.T(), http.MethodPost, t.Data.Links.Submit, `{ "actor": `)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}
