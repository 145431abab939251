package v1

import (
	"errors"
	"net/http"

	"github.com/budgetflow/backend/internal/envelope"
	"github.com/budgetflow/backend/internal/hierarchy"
	"github.com/budgetflow/backend/internal/importer"
	"github.com/budgetflow/backend/internal/jobs"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/oracle"
	"github.com/budgetflow/backend/internal/workflow"
)

type httpError struct {
	Error string `json:"error" example:"the transaction code must be at least three characters long"`
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	switch {
	// Transient, the client should try again later. Checked first since
	// aggregation errors wrap the database error.
	case errors.Is(err, envelope.ErrAggregation), errors.Is(err, oracle.ErrNotConfigured):
		return http.StatusServiceUnavailable

	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case errors.Is(err, models.ErrResourceNotFound), errors.Is(err, importer.ErrUnknownKind):
		return http.StatusNotFound

	// The request is valid, but conflicts with the current state of the data
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrTransactionLocked),
		errors.Is(err, hierarchy.ErrCycle),
		errors.Is(err, jobs.ErrRefreshRunning):
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var errNoEnvelope = errors.New("there is no envelope configured for this project or any of its parents")
