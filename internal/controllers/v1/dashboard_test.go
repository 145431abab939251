package v1_test

import (
	"net/http"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) dashboard(code string, expectedStatus int) v1.EntityDashboardResponse {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/dashboards/entities/"+code, "")
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus)

	var response v1.EntityDashboardResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestEntityDashboard() {
	createTestCode(suite.T(), "projects", v1.CodeEditable{Code: "9100001", Alias: ptr("Roads North")})
	suite.upload("budget-data", "budget.csv", "9100001,5110101,100,100\n9100002,5110101,50,50\n9100002,5120101,0,25\n")

	t := createTestTransaction(suite.T(), v1.TransactionEditable{})
	createTestLines(suite.T(), *t.Data, transferLines("9100001", "9100002", 10))

	// Lines that are not approved do not change the current budget
	transition(suite.T(), *t.Data, t.Data.Links.Submit)
	rows := suite.dashboard("10001", http.StatusOK).Data
	suite.Require().Len(rows, 2)
	suite.Assert().True(decimal.NewFromInt(100).Equal(rows[0].CurrentBudget))

	transition(suite.T(), *t.Data, t.Data.Links.Approve)
	transition(suite.T(), *t.Data, t.Data.Links.Approve)

	rows = suite.dashboard("10001", http.StatusOK).Data
	suite.Require().Len(rows, 2)

	suite.Assert().Equal("9100001", rows[0].ProjectCode)
	suite.Assert().Equal("Roads North", rows[0].ProjectName)
	suite.Assert().True(decimal.NewFromInt(100).Equal(rows[0].PriorBudget))
	suite.Assert().True(decimal.NewFromInt(90).Equal(rows[0].CurrentBudget))
	suite.Assert().True(decimal.NewFromInt(10).Equal(rows[0].Variance))

	suite.Assert().Equal("9100002", rows[1].ProjectCode)
	suite.Assert().Equal("9100002", rows[1].ProjectName)
	suite.Assert().True(decimal.NewFromInt(50).Equal(rows[1].PriorBudget))
	suite.Assert().True(decimal.NewFromInt(85).Equal(rows[1].CurrentBudget))
	suite.Assert().True(decimal.NewFromInt(-35).Equal(rows[1].Variance))
}

func (suite *TestSuiteStandard) TestEntityDashboardEmpty() {
	response := suite.dashboard("99999", http.StatusOK)
	suite.Assert().NotNil(response.Data)
	suite.Assert().Len(response.Data, 0)

	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/dashboards/entities/10001", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestEntityDashboardDBClosed() {
	suite.CloseDB()
	suite.dashboard("10001", http.StatusServiceUnavailable)
}
