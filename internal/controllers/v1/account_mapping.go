package v1

import (
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAccountMappingRoutes registers the routes for account mappings with
// the RouterGroup that is passed.
func RegisterAccountMappingRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAccountMappingList)
		r.GET("", GetAccountMappings)
		r.POST("", CreateAccountMappings)
	}

	// Account Mapping with ID
	{
		r.OPTIONS("/:id", OptionsAccountMappingDetail)
		r.GET("/:id", GetAccountMapping)
		r.DELETE("/:id", DeleteAccountMapping)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Account Mappings
// @Success		204
// @Router			/v1/account-mappings [options]
func OptionsAccountMappingList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Account Mappings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/account-mappings/{id} [options]
func OptionsAccountMappingDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.AccountMapping{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Create account mappings
// @Description	Creates account mappings. Mappings that exist already are returned unchanged.
// @Tags			Account Mappings
// @Produce		json
// @Success		201			{object}	AccountMappingCreateResponse
// @Failure		400			{object}	AccountMappingCreateResponse
// @Failure		500			{object}	AccountMappingCreateResponse
// @Param			mappings	body		[]v1.AccountMappingEditable	true	"Account Mappings"
// @Router			/v1/account-mappings [post]
func CreateAccountMappings(c *gin.Context) {
	var mappings []AccountMappingEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &mappings)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountMappingCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AccountMappingCreateResponse{}

	for _, editable := range mappings {
		mapping, _, err := models.GetOrCreateAccountMapping(models.DB, editable.Source, editable.Target)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newAccountMapping(c, mapping)
		r.Data = append(r.Data, AccountMappingResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get account mappings
// @Description	Returns a list of account mappings
// @Tags			Account Mappings
// @Produce		json
// @Success		200	{object}	AccountMappingListResponse
// @Failure		400	{object}	AccountMappingListResponse
// @Failure		500	{object}	AccountMappingListResponse
// @Router			/v1/account-mappings [get]
// @Param			source	query	string	false	"Filter by source account"
// @Param			target	query	string	false	"Filter by target account"
// @Param			offset	query	uint	false	"The offset of the first Account Mapping returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Account Mappings to return. Defaults to 50."
func GetAccountMappings(c *gin.Context) {
	var filter AccountMappingQueryFilter

	// The filters contain only strings and numbers, so this will only fail
	// for unparseable offsets and limits
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Order("source ASC, target ASC").
		Where(filter.model(), queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := limit(setFields, filter.Limit)
	q = q.Limit(limit)

	var mappings []models.AccountMapping
	err := q.Find(&mappings).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMappingListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AccountMappingListResponse{
			Error: &e,
		})
		return
	}

	data := make([]AccountMapping, 0, len(mappings))
	for _, mapping := range mappings {
		data = append(data, newAccountMapping(c, mapping))
	}

	c.JSON(http.StatusOK, AccountMappingListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get account mapping
// @Description	Returns a specific account mapping
// @Tags			Account Mappings
// @Produce		json
// @Success		200	{object}	AccountMappingResponse
// @Failure		400	{object}	AccountMappingResponse
// @Failure		404	{object}	AccountMappingResponse
// @Failure		500	{object}	AccountMappingResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/account-mappings/{id} [get]
func GetAccountMapping(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMappingResponse{
			Error: &s,
		})
		return
	}

	var mapping models.AccountMapping
	err = models.DB.First(&mapping, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AccountMappingResponse{
			Error: &s,
		})
		return
	}

	data := newAccountMapping(c, mapping)
	c.JSON(http.StatusOK, AccountMappingResponse{Data: &data})
}

// @Summary		Delete account mapping
// @Description	Deletes an account mapping
// @Tags			Account Mappings
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/account-mappings/{id} [delete]
func DeleteAccountMapping(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var mapping models.AccountMapping
	err = models.DB.First(&mapping, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&mapping).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
