package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestCodesDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestCodesDBClosed() {
	suite.CloseDB()

	for _, path := range []string{"projects", "accounts", "entities"} {
		suite.T().Run(path, func(t *testing.T) {
			createTestCode(t, path, v1.CodeEditable{}, http.StatusInternalServerError)

			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/%s", path), "")
			test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)

			var response v1.CodeListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Contains(t, *response.Error, models.ErrGeneral.Error())
		})
	}
}

func (suite *TestSuiteStandard) TestCodesCreate() {
	tests := []struct {
		name   string
		path   string
		code   v1.CodeEditable
		status int
	}{
		{"Project", "projects", v1.CodeEditable{Code: "9000000"}, http.StatusCreated},
		{"Account with alias", "accounts", v1.CodeEditable{Code: "TC11100T", Alias: ptr("Man Power")}, http.StatusCreated},
		{"Entity with parent", "entities", v1.CodeEditable{Code: "10001", Parent: ptr("10000")}, http.StatusCreated},
		{"Whitespace code", "projects", v1.CodeEditable{Code: "   "}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			c := createTestCode(t, tt.path, tt.code, tt.status)
			if tt.status != http.StatusCreated {
				return
			}

			assert.Equal(t, tt.code.Code, c.Data.Code)
			assert.Equal(t, tt.code.Parent, c.Data.Parent)
			if tt.code.Alias != nil {
				assert.Equal(t, *tt.code.Alias, c.Data.Name)
			} else {
				assert.Equal(t, tt.code.Code, c.Data.Name)
			}
			assert.Equal(t, fmt.Sprintf("http://example.com/v1/%s/%s", tt.path, c.Data.ID), c.Data.Links.Self)
		})
	}
}

// TestCodesDuplicate verifies that codes are unique per code type, but not
// across them.
func (suite *TestSuiteStandard) TestCodesDuplicate() {
	createTestCode(suite.T(), "projects", v1.CodeEditable{Code: "1000"})
	createTestCode(suite.T(), "accounts", v1.CodeEditable{Code: "1000"})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/projects", []v1.CodeEditable{{Code: "1000"}, {Code: "1001"}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CodeCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	// The second code is still created
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal(models.ErrProjectCodeNotUnique.Error(), *response.Data[0].Error)
	suite.Assert().Equal("1001", response.Data[1].Data.Code)
}

func (suite *TestSuiteStandard) TestCodesGetSingle() {
	p := createTestProject(suite.T(), "9000000", nil)

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Project", p.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Project with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "NotParseableAsUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID", "-274", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID", "NotParseableAsUUID", http.StatusBadRequest, http.MethodDelete},
		{"DELETE No Project with this ID", uuid.New().String(), http.StatusNotFound, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/projects/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestCodesGetFilter() {
	createTestProject(suite.T(), "9000000", nil)
	createTestProject(suite.T(), "9100000", ptr("9000000"))
	createTestProject(suite.T(), "9100001", ptr("9100000"))
	createTestProject(suite.T(), "9100002", ptr("9100000"))
	createTestProject(suite.T(), "9200000", ptr("9000000"))
	createTestCode(suite.T(), "projects", v1.CodeEditable{Code: "8000000", Alias: ptr("Roads")})

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"Code", "code=9100000", []string{"9100000"}},
		{"Parent", "parent=9100000", []string{"9100001", "9100002"}},
		{"Roots", "parent=", []string{"8000000", "9000000"}},
		{"Alias", "alias=oad", []string{"8000000"}},
		{"Search in alias", "search=Roads", []string{"8000000"}},
		{"Search in code", "search=91", []string{"9100000", "9100001", "9100002"}},
		{"Subtree without root", "root=9000000", []string{"9100000", "9100001", "9100002", "9200000"}},
		{"Subtree of leaf", "root=9100002", []string{}},
		{"Glob", "match=91*", []string{"9100000", "9100001", "9100002"}},
		{"Glob in subtree", "root=9000000&match=*0000", []string{"9100000", "9200000"}},
		{"Limit", "limit=2", []string{"8000000", "9000000"}},
		{"Offset", "offset=5", []string{"9200000"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/projects?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CodeListResponse
			test.DecodeResponse(t, &r, &response)

			codes := make([]string, 0, len(response.Data))
			for _, c := range response.Data {
				codes = append(codes, c.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func (suite *TestSuiteStandard) TestCodesUpdate() {
	createTestProject(suite.T(), "9000000", nil)
	p := createTestCode(suite.T(), "projects", v1.CodeEditable{Code: "9100000", Alias: ptr("Roads")})

	// Only the parent is changed, the alias stays
	r := test.Request(suite.T(), http.MethodPatch, p.Data.Links.Self, map[string]any{"parent": "9000000"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.CodeResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Equal("9000000", *updated.Data.Parent)
	suite.Assert().Equal("Roads", *updated.Data.Alias)

	// An explicit null removes the alias
	r = test.Request(suite.T(), http.MethodPatch, p.Data.Links.Self, `{ "alias": null }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &updated)
	suite.Assert().Nil(updated.Data.Alias)
	suite.Assert().Equal("9100000", updated.Data.Name)

	r = test.Request(suite.T(), http.MethodPatch, p.Data.Links.Self, `{ "code": 9 }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodPatch, p.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestCodesDelete() {
	e := createTestCode(suite.T(), "entities", v1.CodeEditable{Code: "10001"})

	r := test.Request(suite.T(), http.MethodDelete, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
