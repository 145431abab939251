package v1

import (
	"strconv"
	"strings"

	"github.com/budgetflow/backend/internal/envelope"
	"github.com/rs/zerolog/log"
)

type ProjectEnvelopeQuery struct {
	Year         string `form:"year" example:"2025"`         // Fiscal year of the transactions to include
	Month        string `form:"month" example:"Jan"`         // Month (1-12 or three letter abbreviation) of the transactions to include
	Controllable string `form:"controllable" example:"true"` // Only aggregate controllable accounts. Defaults to true.
}

// options converts the query to resolution options. Invalid values are
// skipped with a warning.
func (q ProjectEnvelopeQuery) options() envelope.Options {
	opts := envelope.Options{
		Filter:           envelope.ParseFilter(q.Year, q.Month),
		ControllableOnly: true,
	}

	controllable := strings.TrimSpace(q.Controllable)
	if controllable != "" {
		b, err := strconv.ParseBool(controllable)
		if err != nil {
			log.Warn().Str("controllable", controllable).Msg("ignoring invalid controllable filter")
		} else {
			opts.ControllableOnly = b
		}
	}

	return opts
}

type ProjectEnvelopeResponse struct {
	Data    *envelope.Result `json:"data"`                                                                                              // The resolved envelope, null if none is configured
	Error   *string          `json:"error" example:"the envelope could not be calculated, please try again"`                            // The error, if any occurred
	Message *string          `json:"message,omitempty" example:"there is no envelope configured for this project or any of its parents"` // Set when no envelope is configured
}
