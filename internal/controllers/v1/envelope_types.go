package v1

import (
	"fmt"

	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// EnvelopeEditable represents all user configurable parameters
type EnvelopeEditable struct {
	ProjectCode string          `json:"projectCode" binding:"required" example:"9000000"` // Code of the project the envelope belongs to
	Amount      decimal.Decimal `json:"amount" example:"20000000"`                        // The ceiling for the project and its descendants
}

type EnvelopeLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/envelopes/65392deb-5e92-4268-b114-297faad6cdce"` // The envelope itself
	Resolution string `json:"resolution" example:"https://example.com/api/v1/projects/9000000/envelope"`                // The resolved envelope of the project
}

type Envelope struct {
	models.DefaultModel
	EnvelopeEditable
	Links EnvelopeLinks `json:"links"` // Links to related resources
}

func newEnvelope(c *gin.Context, model models.Envelope) Envelope {
	url := c.GetString(string(models.DBContextURL))

	return Envelope{
		DefaultModel: model.DefaultModel,
		EnvelopeEditable: EnvelopeEditable{
			ProjectCode: model.ProjectCode,
			Amount:      model.Amount,
		},
		Links: EnvelopeLinks{
			Self:       fmt.Sprintf("%s/v1/envelopes/%s", url, model.ID),
			Resolution: fmt.Sprintf("%s/v1/projects/%s/envelope", url, model.ProjectCode),
		},
	}
}

type EnvelopeListResponse struct {
	Data       []Envelope  `json:"data"`                                                          // List of Envelopes
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type EnvelopeCreateResponse struct {
	Data  []EnvelopeResponse `json:"data"`                                       // Data for the Envelopes
	Error *string            `json:"error" example:"the code must not be empty"` // The error, if any occurred
}

// appendError appends an EnvelopeResponse with the error and returns the updated HTTP status
func (e *EnvelopeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, EnvelopeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type EnvelopeResponse struct {
	Data  *Envelope `json:"data"`                                                          // Data for the Envelope
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type EnvelopeQueryFilter struct {
	ProjectCode string `form:"project" filterField:"false"` // By project code
	Search      string `form:"search" filterField:"false"`  // By string in the project code
	Offset      uint   `form:"offset" filterField:"false"`  // The offset of the first Envelope returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`   // Maximum number of Envelopes to return. Defaults to 50.
}

type EnvelopeProjectsQuery struct {
	Root []string `form:"root"` // Only return projects in the subtrees of these codes
}

type EnvelopeProjectsResponse struct {
	Data  []string `json:"data" example:"9000000"`                                                 // Codes of the projects that carry an envelope
	Error *string  `json:"error" example:"the envelope could not be calculated, please try again"` // The error, if any occurred
}
