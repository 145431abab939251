package v1

import (
	"github.com/budgetflow/backend/internal/models"
	"github.com/shopspring/decimal"
)

type BalanceReport struct {
	models.DefaultModel
	ControlBudgetName string          `json:"controlBudgetName" example:"MIC_HQ_MONTHLY"` // Control budget the row belongs to
	LedgerName        string          `json:"ledgerName" example:"MIC Ledger"`            // Ledger of the row
	Period            string          `json:"period" example:"Jan-26"`                    // ERP period
	CostCenter        string          `json:"costCenter" example:"10001"`                 // Segment 1
	Account           string          `json:"account" example:"5110101"`                  // Segment 2
	Project           string          `json:"project" example:"9000001"`                  // Segment 3
	BudgetYTD         decimal.Decimal `json:"budgetYtd" example:"1000000"`
	EncumbranceYTD    decimal.Decimal `json:"encumbranceYtd" example:"200000"`
	OtherYTD          decimal.Decimal `json:"otherYtd" example:"0"`
	ActualYTD         decimal.Decimal `json:"actualYtd" example:"300000"`
	FundsAvailable    decimal.Decimal `json:"fundsAvailable" example:"500000"` // What can still be moved away
}

func newBalanceReport(model models.BalanceReport) BalanceReport {
	return BalanceReport{
		DefaultModel:      model.DefaultModel,
		ControlBudgetName: model.ControlBudgetName,
		LedgerName:        model.LedgerName,
		Period:            model.Period,
		CostCenter:        model.Segment1,
		Account:           model.Segment2,
		Project:           model.Segment3,
		BudgetYTD:         model.BudgetYTD,
		EncumbranceYTD:    model.EncumbranceYTD,
		OtherYTD:          model.OtherYTD,
		ActualYTD:         model.ActualYTD,
		FundsAvailable:    model.FundsAvailable,
	}
}

type BalanceReportListResponse struct {
	Data       []BalanceReport `json:"data"`                                                          // List of balance report rows
	Error      *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination     `json:"pagination"`                                                    // Pagination information
}

type BalanceReportQueryFilter struct {
	CostCenter string `form:"costCenter"`                 // By cost center
	Account    string `form:"account"`                    // By account
	Project    string `form:"project"`                    // By project
	Period     string `form:"period"`                     // By ERP period
	Offset     uint   `form:"offset" filterField:"false"` // The offset of the first row returned. Defaults to 0.
	Limit      int    `form:"limit" filterField:"false"`  // Maximum number of rows to return. Defaults to 50.
}

// model transforms the filter into a model. The query field names
// are translated by queryFields.
func (f BalanceReportQueryFilter) model() models.BalanceReport {
	return models.BalanceReport{
		Segment1: f.CostCenter,
		Segment2: f.Account,
		Segment3: f.Project,
		Period:   f.Period,
	}
}

var balanceReportFields = map[string]string{
	"CostCenter": "Segment1",
	"Account":    "Segment2",
	"Project":    "Segment3",
	"Period":     "Period",
}

type BalanceReportRefresh struct {
	Rows int `json:"rows" example:"4211"` // Number of rows stored
}

type BalanceReportRefreshResponse struct {
	Data  *BalanceReportRefresh `json:"data"`                                                          // Result of the refresh
	Error *string               `json:"error" example:"a balance report refresh is already running"` // The error, if any occurred
}
