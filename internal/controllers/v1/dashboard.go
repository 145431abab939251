package v1

import (
	"net/http"

	"github.com/budgetflow/backend/internal/envelope"
	"github.com/budgetflow/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterDashboardRoutes registers the routes for dashboards with
// the RouterGroup that is passed.
func RegisterDashboardRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/entities/:code", OptionsEntityDashboard)
	r.GET("/entities/:code", GetEntityDashboard)
}

type EntityDashboardResponse struct {
	Data  []envelope.DashboardRow `json:"data"`                                                                   // One row per project with lines on the cost center
	Error *string                 `json:"error" example:"the envelope could not be calculated, please try again"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Dashboards
// @Success		204
// @Param			code	path	string	true	"Cost center code"
// @Router			/v1/dashboards/entities/{code} [options]
func OptionsEntityDashboard(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Entity dashboard
// @Description	Compares prior and current budget for every project with transfer lines on the cost center.
// @Description	The current budget includes all approved transfers, the variance is prior minus current.
// @Tags			Dashboards
// @Produce		json
// @Success		200		{object}	EntityDashboardResponse
// @Failure		503		{object}	EntityDashboardResponse
// @Param			code	path		string	true	"Cost center code"
// @Router			/v1/dashboards/entities/{code} [get]
func GetEntityDashboard(c *gin.Context) {
	var uri URICode
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EntityDashboardResponse{
			Error: &s,
		})
		return
	}

	rows, err := engine().EntityDashboard(c.Request.Context(), uri.Code)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), EntityDashboardResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, EntityDashboardResponse{Data: rows})
}
