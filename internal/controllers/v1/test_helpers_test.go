package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/budgetflow/backend/internal/controllers/v1"
	"github.com/budgetflow/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func createTestCode(t *testing.T, path string, c v1.CodeEditable, expectedStatus ...int) v1.CodeResponse {
	if c.Code == "" {
		c.Code = uuid.NewString()
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CodeEditable{c}

	r := test.Request(t, http.MethodPost, fmt.Sprintf("http://example.com/v1/%s", path), body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CodeCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CodeResponse{}
}

func createTestProject(t *testing.T, code string, parent *string) v1.CodeResponse {
	return createTestCode(t, "projects", v1.CodeEditable{Code: code, Parent: parent})
}

func createTestEnvelope(t *testing.T, e v1.EnvelopeEditable, expectedStatus ...int) v1.EnvelopeResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/envelopes", []v1.EnvelopeEditable{e})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.EnvelopeCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.EnvelopeResponse{}
}

func createTestTransaction(t *testing.T, c v1.TransactionEditable, expectedStatus ...int) v1.TransactionResponse {
	if c.Code == "" {
		c.Code = fmt.Sprintf("FAR-%s", uuid.NewString())
	}

	if c.FiscalYear == 0 {
		c.FiscalYear = 2025
	}

	if c.Month == 0 {
		c.Month = 1
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", []v1.TransactionEditable{c})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.TransactionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.TransactionResponse{}
}

func createTestLines(t *testing.T, transaction v1.Transaction, lines []v1.TransferLineEditable, expectedStatus ...int) v1.TransferLineCreateResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, transaction.Links.Lines, lines)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.TransferLineCreateResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

// transferLines returns two lines moving amount from one project to another.
func transferLines(from, to string, amount int64) []v1.TransferLineEditable {
	return []v1.TransferLineEditable{
		{CostCenter: "10001", Account: "5110101", Project: from, FromAmount: decimal.NewFromInt(amount), Reason: "Moved"},
		{CostCenter: "10001", Account: "5110101", Project: to, ToAmount: decimal.NewFromInt(amount), Reason: "Received"},
	}
}

// transition sends a workflow action for the transaction.
func transition(t *testing.T, transaction v1.Transaction, url string, expectedStatus ...int) v1.TransactionResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := test.Request(t, http.MethodPost, url, v1.TransitionEditable{Actor: "j.doe", Comment: "ok"})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.TransactionResponse
	test.DecodeResponse(t, &r, &response)
	return response
}

func ptr(s string) *string {
	return &s
}
