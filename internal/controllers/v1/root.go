package v1

import (
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Accounts        string `json:"accounts" example:"https://example.com/api/v1/accounts"`                 // URL of Account collection endpoint
	Entities        string `json:"entities" example:"https://example.com/api/v1/entities"`                 // URL of Entity collection endpoint
	Projects        string `json:"projects" example:"https://example.com/api/v1/projects"`                 // URL of Project collection endpoint
	Envelopes       string `json:"envelopes" example:"https://example.com/api/v1/envelopes"`               // URL of Envelope collection endpoint
	AccountMappings string `json:"accountMappings" example:"https://example.com/api/v1/account-mappings"`  // URL of Account Mapping collection endpoint
	Uploads         string `json:"uploads" example:"https://example.com/api/v1/uploads"`                   // URL of the upload endpoints
	Transactions    string `json:"transactions" example:"https://example.com/api/v1/transactions"`         // URL of Transaction collection endpoint
	BalanceReports  string `json:"balanceReports" example:"https://example.com/api/v1/balance-reports"`    // URL of Balance Report collection endpoint
	Dashboards      string `json:"dashboards" example:"https://example.com/api/v1/dashboards/entities/CC"` // URL template of the entity dashboard
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Accounts:        url + "/v1/accounts",
			Entities:        url + "/v1/entities",
			Projects:        url + "/v1/projects",
			Envelopes:       url + "/v1/envelopes",
			AccountMappings: url + "/v1/account-mappings",
			Uploads:         url + "/v1/uploads",
			Transactions:    url + "/v1/transactions",
			BalanceReports:  url + "/v1/balance-reports",
			Dashboards:      url + "/v1/dashboards/entities/{code}",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
