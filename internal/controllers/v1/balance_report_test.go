package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/budgetflow/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestBalanceReportsGet() {
	for _, row := range []models.BalanceReport{
		{Period: "Jan-26", Segment1: "10001", Segment2: "5110101", Segment3: "9100001", FundsAvailable: decimal.NewFromInt(50)},
		{Period: "Jan-26", Segment1: "10001", Segment2: "5110102", Segment3: "9100001", FundsAvailable: decimal.NewFromInt(20)},
		{Period: "Jan-26", Segment1: "10002", Segment2: "5110101", Segment3: "9100002", FundsAvailable: decimal.NewFromInt(0)},
	} {
		suite.Require().Nil(models.DB.Create(&row).Error)
	}

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All", "", 3},
		{"Cost center", "costCenter=10001", 2},
		{"Account", "account=5110101", 2},
		{"Project", "project=9100002", 1},
		{"Combination", "costCenter=10001&account=5110102&project=9100001", 1},
		{"Period", "period=Feb-26", 0},
		{"Limit", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/balance-reports?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.BalanceReportListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/balance-reports?costCenter=10001&account=5110102", "")
	var response v1.BalanceReportListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("9100001", response.Data[0].Project)
	suite.Assert().True(decimal.NewFromInt(20).Equal(response.Data[0].FundsAvailable))
}

func (suite *TestSuiteStandard) TestBalanceReportRefreshNotConfigured() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/balance-reports/refresh", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusServiceUnavailable)

	var response v1.BalanceReportRefreshResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Contains(*response.Error, oracle.ErrNotConfigured.Error())
}

func (suite *TestSuiteStandard) TestBalanceReportOptions() {
	for _, path := range []string{"balance-reports", "balance-reports/refresh"} {
		r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/"+path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	}
}
