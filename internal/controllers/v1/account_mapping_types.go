package v1

import (
	"fmt"

	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// AccountMappingEditable represents all user configurable parameters
type AccountMappingEditable struct {
	Source string `json:"source" binding:"required" example:"5110101"`  // The legacy account
	Target string `json:"target" binding:"required" example:"TC11100T"` // The account that replaced it
}

type AccountMappingLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/account-mappings/65392deb-5e92-4268-b114-297faad6cdce"` // The mapping itself
}

type AccountMapping struct {
	models.DefaultModel
	AccountMappingEditable
	Links AccountMappingLinks `json:"links"` // Links to related resources
}

func newAccountMapping(c *gin.Context, model models.AccountMapping) AccountMapping {
	url := c.GetString(string(models.DBContextURL))

	return AccountMapping{
		DefaultModel: model.DefaultModel,
		AccountMappingEditable: AccountMappingEditable{
			Source: model.Source,
			Target: model.Target,
		},
		Links: AccountMappingLinks{
			Self: fmt.Sprintf("%s/v1/account-mappings/%s", url, model.ID),
		},
	}
}

type AccountMappingListResponse struct {
	Data       []AccountMapping `json:"data"`                                                          // List of Account Mappings
	Error      *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination      `json:"pagination"`                                                    // Pagination information
}

type AccountMappingCreateResponse struct {
	Data  []AccountMappingResponse `json:"data"`                                                  // Data for the Account Mappings
	Error *string                  `json:"error" example:"an account cannot be mapped to itself"` // The error, if any occurred
}

// appendError appends an AccountMappingResponse with the error and returns the updated HTTP status
func (r *AccountMappingCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, AccountMappingResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountMappingResponse struct {
	Data  *AccountMapping `json:"data"`                                                          // Data for the Account Mapping
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AccountMappingQueryFilter struct {
	Source string `form:"source"`                     // By source account
	Target string `form:"target"`                     // By target account
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first Account Mapping returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of Account Mappings to return. Defaults to 50.
}

func (f AccountMappingQueryFilter) model() models.AccountMapping {
	return models.AccountMapping{
		Source: f.Source,
		Target: f.Target,
	}
}
