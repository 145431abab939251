package v1

import (
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterBalanceReportRoutes registers the routes for the balance report
// with the RouterGroup that is passed.
func RegisterBalanceReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsBalanceReports)
	r.GET("", GetBalanceReports)

	r.OPTIONS("/refresh", OptionsBalanceReportRefresh)
	r.POST("/refresh", RefreshBalanceReport)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Reports
// @Success		204
// @Router			/v1/balance-reports [options]
func OptionsBalanceReports(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Balance Reports
// @Success		204
// @Router			/v1/balance-reports/refresh [options]
func OptionsBalanceReportRefresh(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Get balance report
// @Description	Returns the rows of the stored balance report
// @Tags			Balance Reports
// @Produce		json
// @Success		200	{object}	BalanceReportListResponse
// @Failure		400	{object}	BalanceReportListResponse
// @Failure		500	{object}	BalanceReportListResponse
// @Router			/v1/balance-reports [get]
// @Param			costCenter	query	string	false	"Filter by cost center"
// @Param			account		query	string	false	"Filter by account"
// @Param			project		query	string	false	"Filter by project"
// @Param			period		query	string	false	"Filter by ERP period"
// @Param			offset		query	uint	false	"The offset of the first row returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of rows to return. Defaults to 50."
func GetBalanceReports(c *gin.Context) {
	var filter BalanceReportQueryFilter

	// The filters contain only strings and numbers, so this will only fail
	// for unparseable offsets and limits
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// The API names differ from the model field names
	fields := make([]any, 0, len(queryFields))
	for _, f := range queryFields {
		fields = append(fields, balanceReportFields[f.(string)])
	}

	q := models.DB.
		Order("segment1 ASC, segment2 ASC, segment3 ASC").
		Where(filter.model(), fields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := limit(setFields, filter.Limit)
	q = q.Limit(limit)

	var rows []models.BalanceReport
	err := q.Find(&rows).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceReportListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BalanceReportListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BalanceReport, 0, len(rows))
	for _, row := range rows {
		data = append(data, newBalanceReport(row))
	}

	c.JSON(http.StatusOK, BalanceReportListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Refresh balance report
// @Description	Replaces the stored balance report with the current report from the ERP
// @Tags			Balance Reports
// @Produce		json
// @Success		200	{object}	BalanceReportRefreshResponse
// @Failure		409	{object}	BalanceReportRefreshResponse
// @Failure		500	{object}	BalanceReportRefreshResponse
// @Failure		503	{object}	BalanceReportRefreshResponse
// @Router			/v1/balance-reports/refresh [post]
func RefreshBalanceReport(c *gin.Context) {
	rows, err := balanceReportJob().Run(c.Request.Context())
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BalanceReportRefreshResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, BalanceReportRefreshResponse{
		Data: &BalanceReportRefresh{Rows: rows},
	})
}
