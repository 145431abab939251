package v1

import (
	"fmt"

	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// CodeEditable represents all user configurable parameters of accounts,
// entities and projects
type CodeEditable struct {
	Code   string  `json:"code" example:"9000001"`           // The business code, unique per code type
	Parent *string `json:"parent" example:"9000000"`         // Code of the parent, null for roots
	Alias  *string `json:"alias" example:"Road Maintenance"` // Display name
}

// model transforms the API representation into the model representation
func (e CodeEditable) model() models.CodeNode {
	return models.CodeNode{
		Code:   e.Code,
		Parent: e.Parent,
		Alias:  e.Alias,
	}
}

type CodeLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/projects/3b1cd1b3-2b3e-4e34-bd2b-23b6ea43d0a2"` // The code itself
	Children string `json:"children" example:"https://example.com/api/v1/projects?parent=9000000"`                   // Direct children of the code
	Subtree  string `json:"subtree" example:"https://example.com/api/v1/projects?root=9000000"`                      // All descendants of the code
}

type Code struct {
	models.DefaultModel
	CodeEditable
	Name  string    `json:"name" example:"Road Maintenance"` // Alias or, if not set, the code
	Links CodeLinks `json:"links"`                           // Links to related resources
}

func newCode[T models.CodeRecord](c *gin.Context, path string, record T) Code {
	url := c.GetString(string(models.DBContextURL))
	node := record.Node()
	meta := record.Meta()

	return Code{
		DefaultModel: meta,
		CodeEditable: CodeEditable{
			Code:   node.Code,
			Parent: node.Parent,
			Alias:  node.Alias,
		},
		Name: record.DisplayName(),
		Links: CodeLinks{
			Self:     fmt.Sprintf("%s/v1/%s/%s", url, path, meta.ID),
			Children: fmt.Sprintf("%s/v1/%s?parent=%s", url, path, node.Code),
			Subtree:  fmt.Sprintf("%s/v1/%s?root=%s", url, path, node.Code),
		},
	}
}

type CodeListResponse struct {
	Data       []Code      `json:"data"`                                                          // List of codes
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type CodeCreateResponse struct {
	Data  []CodeResponse `json:"data"`                                       // Data for the codes
	Error *string        `json:"error" example:"the code must not be empty"` // The error, if any occurred
}

// appendError appends a CodeResponse with the error and returns the updated HTTP status
func (r *CodeCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, CodeResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type CodeResponse struct {
	Data  *Code   `json:"data"`                                                          // Data for the code
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type CodeQueryFilter struct {
	Code   string `form:"code" filterField:"false"`   // Exact code
	Parent string `form:"parent" filterField:"false"` // Exact parent code. Empty for roots
	Alias  string `form:"alias" filterField:"false"`  // By alias
	Search string `form:"search" filterField:"false"` // By string in code or alias
	Match  string `form:"match" filterField:"false"`  // Glob pattern for the code, e.g. 9*01
	Root   string `form:"root" filterField:"false"`   // Only descendants of this code
	Offset uint   `form:"offset" filterField:"false"` // The offset of the first code returned. Defaults to 0.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of codes to return. Defaults to 50.
}
