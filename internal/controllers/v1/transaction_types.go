package v1

import (
	"fmt"
	"time"

	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/types"
	"github.com/budgetflow/backend/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionEditable represents all user configurable parameters
type TransactionEditable struct {
	Code        string            `json:"code" binding:"required" example:"FAR-2025-0042"` // Code of the request. The first three letters select the type
	FiscalYear  int               `json:"fiscalYear" example:"2025"`                       // Fiscal year of the transfer
	Month       types.FiscalMonth `json:"month" swaggertype:"string" example:"Jan"`        // Month, 1-12 or a three letter abbreviation
	Description string            `json:"description" example:"Move funds to roadworks"`   // What the transfer is for
}

// model transforms the API representation into the model representation
func (e TransactionEditable) model() (models.Transaction, error) {
	if !e.Month.Valid() {
		return models.Transaction{}, types.ErrInvalidMonth
	}

	return models.Transaction{
		Code:        e.Code,
		FiscalYear:  e.FiscalYear,
		Month:       e.Month.Abbreviation(),
		Description: e.Description,
	}, nil
}

type TransactionLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2"`            // The transaction itself
	Lines   string `json:"lines" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/lines"`     // Its transfer lines
	Actions string `json:"actions" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/actions"` // The approval log
	Submit  string `json:"submit" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/submit"`   // Sends the transaction for approval
	Approve string `json:"approve" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/approve"` // Approves the current stage
	Reject  string `json:"reject" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/reject"`   // Rejects the transaction
	Reopen  string `json:"reopen" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/reopen"`   // Returns the transaction to pending
}

// TransactionWorkflow is the approval state of a transaction. Level and
// legacy status are derived from status and stage.
type TransactionWorkflow struct {
	Status           models.WorkflowStatus `json:"status" example:"in_progress"`              // pending, in_progress, approved or rejected
	StatusText       string                `json:"statusText" example:"waiting for approval"` // Human readable status
	LegacyStatus     string                `json:"legacyStatus" example:"submitted"`          // pending, submitted, approved or rejected
	Level            int                   `json:"level" example:"2"`                         // 0 rejected, 1 pending, 1+stage in progress, stages+2 approved
	Template         string                `json:"template" example:"standard"`               // Name of the approval template
	Stage            int                   `json:"stage" example:"1"`                         // Current stage, 0 unless in progress
	StageName        string                `json:"stageName" example:"budget-review"`         // Name of the current stage
	TotalStages      int                   `json:"totalStages" example:"2"`                   // Number of stages of the template
	JournalRequestID string                `json:"journalRequestId" example:"1803242"`        // ERP request id of the last encumbrance journal
}

func newTransactionWorkflow(instance models.WorkflowInstance, templates workflow.Templates) TransactionWorkflow {
	w := TransactionWorkflow{
		Status:           instance.Status,
		StatusText:       instance.StatusText(),
		LegacyStatus:     instance.LegacyStatus(),
		Level:            instance.Level(),
		Template:         instance.Template,
		Stage:            instance.CurrentStage,
		TotalStages:      instance.TotalStages,
		JournalRequestID: instance.JournalRequestID,
	}

	if instance.Status == models.WorkflowInProgress {
		template, ok := templates.Find(instance.Template)
		if ok && instance.CurrentStage >= 1 && instance.CurrentStage <= len(template.Stages) {
			w.StageName = template.Stages[instance.CurrentStage-1].Name
		}
	}

	return w
}

type Transaction struct {
	models.DefaultModel
	TransactionEditable
	AdditionalBudget bool                `json:"additionalBudget" example:"false"` // Is this a request for additional budget?
	Workflow         TransactionWorkflow `json:"workflow"`                         // Approval state
	Lines            []TransferLine      `json:"lines,omitempty"`                  // Transfer lines, only set for single transactions
	Links            TransactionLinks    `json:"links"`                            // Links to related resources
}

func newTransaction(c *gin.Context, model models.Transaction, instance models.WorkflowInstance, templates workflow.Templates) Transaction {
	url := fmt.Sprintf("%s/v1/transactions/%s", c.GetString(string(models.DBContextURL)), model.ID)

	// Months are validated on creation, a stored month always parses
	month, _ := types.ParseFiscalMonth(model.Month)

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			Code:        model.Code,
			FiscalYear:  model.FiscalYear,
			Month:       month,
			Description: model.Description,
		},
		AdditionalBudget: model.IsAdditionalBudget(),
		Workflow:         newTransactionWorkflow(instance, templates),
		Links: TransactionLinks{
			Self:    url,
			Lines:   url + "/lines",
			Actions: url + "/actions",
			Submit:  url + "/submit",
			Approve: url + "/approve",
			Reject:  url + "/reject",
			Reopen:  url + "/reopen",
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Data  []TransactionResponse `json:"data"`                                                // Data for the transactions
	Error *string               `json:"error" example:"the transaction code must be unique"` // The error, if any occurred
}

// appendError appends a TransactionResponse with the error and returns the updated HTTP status
func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionQueryFilter struct {
	Code       string `form:"code" filterField:"false"`   // By string in the code
	FiscalYear int    `form:"fiscalYear"`                 // By fiscal year
	Month      string `form:"month" filterField:"false"`  // By month, 1-12 or a three letter abbreviation
	Status     string `form:"status" filterField:"false"` // By workflow status
	Search     string `form:"search" filterField:"false"` // By string in code or description
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first transaction returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() models.Transaction {
	return models.Transaction{
		FiscalYear: f.FiscalYear,
	}
}

// TransferLineEditable represents all user configurable parameters
type TransferLineEditable struct {
	CostCenter string          `json:"costCenter" example:"10001"`               // Cost center code
	Account    string          `json:"account" example:"5110101"`                // Account code
	Project    string          `json:"project" example:"9000001"`                // Project code
	FromAmount decimal.Decimal `json:"fromAmount" example:"0"`                   // Amount moved away from the combination
	ToAmount   decimal.Decimal `json:"toAmount" example:"5000000"`               // Amount moved to the combination
	Reason     string          `json:"reason" example:"Additional road repairs"` // Why the amount moves
}

// model transforms the API representation into the model representation
func (e TransferLineEditable) model() models.TransferLine {
	return models.TransferLine{
		CostCenterCode: e.CostCenter,
		AccountCode:    e.Account,
		ProjectCode:    e.Project,
		FromAmount:     e.FromAmount,
		ToAmount:       e.ToAmount,
		Reason:         e.Reason,
	}
}

type TransferLineLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2/lines/9c5b5e4e-4a69-4c6f-9f39-7d1c1f8ab2a3"` // The line itself
	Transaction string `json:"transaction" example:"https://example.com/api/v1/transactions/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2"`                                     // The transaction of the line
}

type TransferLine struct {
	models.DefaultModel
	TransactionID uuid.UUID `json:"transactionId" example:"3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2"` // ID of the transaction
	TransferLineEditable
	Links TransferLineLinks `json:"links"` // Links to related resources
}

func newTransferLine(c *gin.Context, model models.TransferLine) TransferLine {
	transaction := fmt.Sprintf("%s/v1/transactions/%s", c.GetString(string(models.DBContextURL)), model.TransactionID)

	return TransferLine{
		DefaultModel:  model.DefaultModel,
		TransactionID: model.TransactionID,
		TransferLineEditable: TransferLineEditable{
			CostCenter: model.CostCenterCode,
			Account:    model.AccountCode,
			Project:    model.ProjectCode,
			FromAmount: model.FromAmount,
			ToAmount:   model.ToAmount,
			Reason:     model.Reason,
		},
		Links: TransferLineLinks{
			Self:        fmt.Sprintf("%s/lines/%s", transaction, model.ID),
			Transaction: transaction,
		},
	}
}

type TransferLineListResponse struct {
	Data  []TransferLine `json:"data"`                                                          // List of transfer lines
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransferLineCreateResponse struct {
	Data  []TransferLineResponse `json:"data"`                                                                                // Data for the transfer lines
	Error *string                `json:"error" example:"a transfer line cannot have a from and a to amount at the same time"` // The error, if any occurred
}

// appendError appends a TransferLineResponse with the error and returns the updated HTTP status
func (t *TransferLineCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransferLineResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransferLineResponse struct {
	Data  *TransferLine `json:"data"`                                                                    // Data for the transfer line
	Error *string       `json:"error" example:"the transaction can only be changed while it is pending"` // The error, if any occurred
}

// TransitionEditable is the optional body of workflow actions.
type TransitionEditable struct {
	Actor   string `json:"actor" example:"j.doe"`                  // Who performs the action
	Comment string `json:"comment" example:"Checked with finance"` // Comment for the approval log
}

type ApprovalAction struct {
	ID         uuid.UUID             `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	CreatedAt  time.Time             `json:"createdAt" example:"2024-04-02T19:28:44.491514Z"`
	Action     string                `json:"action" example:"approve"`         // submit, approve, reject or reopen
	Stage      int                   `json:"stage" example:"1"`                // Stage the action was taken on
	Actor      string                `json:"actor" example:"j.doe"`            // Who performed the action
	Comment    string                `json:"comment" example:"Looks good"`     // Comment of the actor
	FromStatus models.WorkflowStatus `json:"fromStatus" example:"in_progress"` // Status before the action
	ToStatus   models.WorkflowStatus `json:"toStatus" example:"approved"`      // Status after the action
}

func newApprovalAction(model models.ApprovalAction) ApprovalAction {
	return ApprovalAction{
		ID:         model.ID,
		CreatedAt:  model.CreatedAt,
		Action:     model.Action,
		Stage:      model.Stage,
		Actor:      model.Actor,
		Comment:    model.Comment,
		FromStatus: model.FromStatus,
		ToStatus:   model.ToStatus,
	}
}

type ApprovalActionListResponse struct {
	Data  []ApprovalAction `json:"data"`                                                          // The approval log, oldest first
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
