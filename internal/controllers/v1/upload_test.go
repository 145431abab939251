package v1_test

import (
	"bytes"
	"net/http"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/internal/importer"
	"github.com/budgetflow/backend/test"
)

func (suite *TestSuiteStandard) upload(kind, name, content string, expectedStatus ...int) v1.UploadResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	body, headers := test.UploadFile(suite.T(), name, []byte(content))
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/uploads/"+kind, body, headers)
	test.AssertHTTPStatus(suite.T(), &r, expectedStatus...)

	var response v1.UploadResponse
	test.DecodeResponse(suite.T(), &r, &response)
	return response
}

func (suite *TestSuiteStandard) TestUploadProjects() {
	content := "code,parent,alias\n9000000,,Infrastructure\n9100001,9000000,Roads North\n\n9100002,9000000\n"

	response := suite.upload("projects", "projects.csv", content)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(3, response.Data.Created)
	suite.Assert().Equal(0, response.Data.Updated)
	suite.Assert().Len(response.Data.Checksum, 64)
	suite.Assert().Empty(response.Data.Errors)

	// The same file again updates the rows
	response = suite.upload("projects", "projects.csv", content)
	suite.Assert().Equal(0, response.Data.Created)
	suite.Assert().Equal(3, response.Data.Updated)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/projects?parent=9000000", "")
	var projects v1.CodeListResponse
	test.DecodeResponse(suite.T(), &r, &projects)
	suite.Assert().Len(projects.Data, 2)
}

func (suite *TestSuiteStandard) TestUploadEnvelopes() {
	response := suite.upload("envelopes", "envelopes.csv", "project,envelope\n9000001 - Roads,\"1,000,000.00\"\nTotal,5\n9000002,n/a\n")
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(1, response.Data.Created)
	suite.Assert().Equal(3, response.Data.Skipped)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/envelopes?project=9000001", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	var envelopes v1.EnvelopeListResponse
	test.DecodeResponse(suite.T(), &r, &envelopes)
	suite.Require().Len(envelopes.Data, 1)
	suite.Assert().Equal("1000000", envelopes.Data[0].Amount.String())
}

func (suite *TestSuiteStandard) TestUploadAccountMappings() {
	response := suite.upload("account-mappings", "mappings.csv", "source,target\n5110101,TC11100T\n5110101,TC11100T\n5110102,5110102\n")
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(1, response.Data.Created)
	suite.Assert().Equal(1, response.Data.Duplicates)
	suite.Require().Len(response.Data.Errors, 1)
	suite.Assert().Equal(4, response.Data.Errors[0].Row)
}

func (suite *TestSuiteStandard) TestUploadFails() {
	response := suite.upload("goals", "goals.csv", "a,b\n", http.StatusNotFound)
	suite.Assert().Contains(*response.Error, importer.ErrUnknownKind.Error())

	response = suite.upload("projects", "projects.pdf", "%PDF", http.StatusBadRequest)
	suite.Assert().Contains(*response.Error, importer.ErrUnsupportedFormat.Error())

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/uploads/projects", bytes.NewBuffer(nil), map[string]string{"Content-Type": "multipart/form-data; boundary=none"})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	r = test.Request(suite.T(), http.MethodOptions, "http://example.com/v1/uploads/projects", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}
