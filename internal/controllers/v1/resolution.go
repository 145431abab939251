package v1

import (
	"net/http"
	"strings"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Projects
// @Success		204
// @Param			id	path	string	true	"Project code"
// @Router			/v1/projects/{id}/envelope [options]
func OptionsProjectEnvelope(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Resolve envelope
// @Description	Returns the envelope inherited from the nearest project up the hierarchy that has one,
// @Description	with the current (approved) and estimated (approved and submitted) envelope.
// @Description	A missing envelope is not an error: data is null and message is set.
// @Tags			Projects
// @Produce		json
// @Success		200				{object}	ProjectEnvelopeResponse
// @Failure		400				{object}	ProjectEnvelopeResponse
// @Failure		409				{object}	ProjectEnvelopeResponse
// @Failure		503				{object}	ProjectEnvelopeResponse
// @Param			id				path		string	true	"Project code"
// @Param			year			query		int		false	"Fiscal year"
// @Param			month			query		string	false	"Month, 1-12 or Jan-Dec"
// @Param			controllable	query		bool	false	"Only aggregate controllable accounts. Defaults to true."
// @Router			/v1/projects/{id}/envelope [get]
func GetProjectEnvelope(c *gin.Context) {
	code := strings.TrimSpace(c.Param("id"))

	var query ProjectEnvelopeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectEnvelopeResponse{
			Error: &s,
		})
		return
	}

	result, err := engine().Resolve(c.Request.Context(), code, query.options())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProjectEnvelopeResponse{
			Error: &s,
		})
		return
	}

	if result == nil {
		s := errNoEnvelope.Error()
		c.JSON(http.StatusOK, ProjectEnvelopeResponse{
			Message: &s,
		})
		return
	}

	c.JSON(http.StatusOK, ProjectEnvelopeResponse{Data: result})
}
