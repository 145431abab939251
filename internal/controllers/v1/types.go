package v1

import (
	apiuuid "github.com/budgetflow/backend/internal/uuid"
)

type URIID struct {
	ID apiuuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

type URILineID struct {
	ID     apiuuid.UUID `uri:"id" binding:"required"`     // The ID of the transaction
	LineID apiuuid.UUID `uri:"lineId" binding:"required"` // The ID of the transfer line
}

// URICode is used where the path carries a business code instead of an ID.
type URICode struct {
	Code string `uri:"code" binding:"required"`
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
