package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestEnvelopesCreate() {
	e := createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: " 9000000 ", Amount: decimal.NewFromInt(1000)})
	suite.Assert().Equal("9000000", e.Data.ProjectCode)
	suite.Assert().Equal("http://example.com/v1/projects/9000000/envelope", e.Data.Links.Resolution)

	// Setting the envelope again updates the amount
	updated := createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1500)})
	suite.Assert().Equal(e.Data.ID, updated.Data.ID)
	suite.Assert().True(decimal.NewFromInt(1500).Equal(updated.Data.Amount))

	createTestEnvelope(suite.T(), v1.EnvelopeEditable{Amount: decimal.NewFromInt(10)}, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestEnvelopesGetFilter() {
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9100000", Amount: decimal.NewFromInt(500)})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "8000000", Amount: decimal.NewFromInt(20)})

	tests := []struct {
		name  string
		query string
		len   int
		total int64
	}{
		{"All", "", 3, 3},
		{"Project", "project=9100000", 1, 1},
		{"Search", "search=000000", 3, 3},
		{"Search prefix", "search=9", 2, 2},
		{"Limit", "limit=1", 1, 3},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.EnvelopeListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Len(t, response.Data, tt.len)
			assert.Equal(t, tt.total, response.Pagination.Total)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopesGetSingle() {
	e := createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Envelope", e.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Envelope with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID", "NotParseableAsUUID", http.StatusBadRequest, http.MethodGet},
		{"OPTIONS Existing Envelope", e.Data.ID.String(), http.StatusNoContent, http.MethodOptions},
		{"OPTIONS No Envelope with this ID", uuid.New().String(), http.StatusNotFound, http.MethodOptions},
		{"DELETE Existing Envelope", e.Data.ID.String(), http.StatusNoContent, http.MethodDelete},
		{"GET deleted Envelope", e.Data.ID.String(), http.StatusNotFound, http.MethodGet},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/envelopes/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestEnvelopesProjects() {
	createTestProject(suite.T(), "9000000", nil)
	createTestProject(suite.T(), "9100000", ptr("9000000"))
	createTestProject(suite.T(), "9100001", ptr("9100000"))
	createTestProject(suite.T(), "8000000", nil)

	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9100000", Amount: decimal.NewFromInt(500)})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9100001", Amount: decimal.NewFromInt(50)})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "8000000", Amount: decimal.NewFromInt(20)})

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"All", "", []string{"8000000", "9100000", "9100001"}},
		{"Root without envelope", "root=9000000", []string{"9100000", "9100001"}},
		{"Root with envelope", "root=9100001", []string{"9100001"}},
		{"Two roots", "root=9100001&root=8000000", []string{"8000000", "9100001"}},
		{"Unknown root", "root=1", []string{}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/envelopes/projects?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.EnvelopeProjectsResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, tt.codes, response.Data)
		})
	}
}

// resolve returns the resolved envelope of the project.
func resolve(t *testing.T, project, query string, expectedStatus ...int) v1.ProjectEnvelopeResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/projects/%s/envelope?%s", project, query), "")
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ProjectEnvelopeResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

// TestProjectEnvelopeResolution moves funds out of a project below an
// envelope and verifies the envelope through the approval workflow.
func (suite *TestSuiteStandard) TestProjectEnvelopeResolution() {
	createTestProject(suite.T(), "9000000", nil)
	createTestProject(suite.T(), "9100000", ptr("9000000"))
	createTestProject(suite.T(), "9100001", ptr("9100000"))
	createTestProject(suite.T(), "9100002", ptr("9100000"))
	createTestCode(suite.T(), "accounts", v1.CodeEditable{Code: "TC11100T"})
	createTestCode(suite.T(), "accounts", v1.CodeEditable{Code: "5110101", Parent: ptr("TC11100T")})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})

	// Nothing submitted yet
	response := resolve(suite.T(), "9100001", "")
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("9000000", response.Data.EnvelopeProject)
	suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.InitialEnvelope))
	suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.CurrentEnvelope))
	suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.EstimatedEnvelope))

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{FiscalYear: 2025, Month: 3})
	createTestLines(suite.T(), *transaction.Data, transferLines("9100001", "8000000", 100))
	transition(suite.T(), *transaction.Data, transaction.Data.Links.Submit)

	// Submitted transfers only count towards the estimated envelope
	response = resolve(suite.T(), "9100001", "")
	suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.CurrentEnvelope))
	suite.Assert().True(decimal.NewFromInt(900).Equal(response.Data.EstimatedEnvelope), response.Data.EstimatedEnvelope.String())
	suite.Assert().True(decimal.NewFromInt(-100).Equal(response.Data.ProjectTotals["9100001"].Submitted.Total))

	transition(suite.T(), *transaction.Data, transaction.Data.Links.Approve)
	transition(suite.T(), *transaction.Data, transaction.Data.Links.Approve)

	tests := []struct {
		name      string
		project   string
		query     string
		current   int64
		estimated int64
	}{
		{"Approved", "9100001", "", 900, 900},
		{"Sibling shares the envelope", "9100002", "", 900, 900},
		{"Envelope project itself", "9000000", "", 900, 900},
		{"Matching year and month", "9100001", "year=2025&month=Mar", 900, 900},
		{"Month as number", "9100001", "year=2025&month=3", 900, 900},
		{"Other year", "9100001", "year=2024", 1000, 1000},
		{"Other month", "9100001", "month=Apr", 1000, 1000},
		{"Invalid filters are ignored", "9100001", "year=next&controllable=maybe", 900, 900},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := resolve(t, tt.project, tt.query)
			assert.Equal(t, tt.project, response.Data.ProjectCode)
			assert.True(t, decimal.NewFromInt(tt.current).Equal(response.Data.CurrentEnvelope), "current is %s", response.Data.CurrentEnvelope)
			assert.True(t, decimal.NewFromInt(tt.estimated).Equal(response.Data.EstimatedEnvelope), "estimated is %s", response.Data.EstimatedEnvelope)
		})
	}
}

// TestProjectEnvelopeControllable verifies that only controllable accounts
// count unless requested otherwise.
func (suite *TestSuiteStandard) TestProjectEnvelopeControllable() {
	createTestProject(suite.T(), "9000000", nil)
	createTestCode(suite.T(), "accounts", v1.CodeEditable{Code: "TC11100T"})
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})

	// 5110101 is not below any controllable root
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})
	createTestLines(suite.T(), *transaction.Data, transferLines("9000000", "8000000", 100))
	transition(suite.T(), *transaction.Data, transaction.Data.Links.Submit)

	response := resolve(suite.T(), "9000000", "")
	suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.EstimatedEnvelope))

	response = resolve(suite.T(), "9000000", "controllable=false")
	suite.Assert().True(decimal.NewFromInt(900).Equal(response.Data.EstimatedEnvelope))

	// A mapping onto a controllable account makes the legacy account count
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/account-mappings", []v1.AccountMappingEditable{{Source: "5110101", Target: "TC11100T"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	response = resolve(suite.T(), "9000000", "")
	suite.Assert().True(decimal.NewFromInt(900).Equal(response.Data.EstimatedEnvelope))
}

// TestProjectEnvelopeInvalidQuery verifies that unparseable filters are
// ignored instead of failing the resolution.
func (suite *TestSuiteStandard) TestProjectEnvelopeInvalidQuery() {
	createTestProject(suite.T(), "9000000", nil)
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})

	for _, query := range []string{"year=next", "month=Smarch", "controllable=maybe", "year=2025&year=2026", "unknown=1"} {
		response := resolve(suite.T(), "9000000", query)
		suite.Assert().Nil(response.Error, query)
		suite.Require().NotNil(response.Data, query)
		suite.Assert().True(decimal.NewFromInt(1000).Equal(response.Data.CurrentEnvelope), query)
	}
}

func (suite *TestSuiteStandard) TestProjectEnvelopeMissing() {
	createTestProject(suite.T(), "9000000", nil)

	for _, project := range []string{"9000000", "DoesNotExist"} {
		response := resolve(suite.T(), project, "")
		suite.Assert().Nil(response.Data)
		suite.Assert().Nil(response.Error)
		suite.Require().NotNil(response.Message)
		suite.Assert().Contains(*response.Message, "no envelope")
	}
}

func (suite *TestSuiteStandard) TestProjectEnvelopeCycle() {
	createTestProject(suite.T(), "A1", ptr("B1"))
	createTestProject(suite.T(), "B1", ptr("A1"))

	response := resolve(suite.T(), "A1", "", http.StatusConflict)
	suite.Require().NotNil(response.Error)
	suite.Assert().Contains(*response.Error, "ancestor")
}

func (suite *TestSuiteStandard) TestProjectEnvelopeDBClosed() {
	createTestEnvelope(suite.T(), v1.EnvelopeEditable{ProjectCode: "9000000", Amount: decimal.NewFromInt(1000)})
	suite.CloseDB()

	response := resolve(suite.T(), "9000000", "", http.StatusServiceUnavailable)
	suite.Require().NotNil(response.Error)
}
