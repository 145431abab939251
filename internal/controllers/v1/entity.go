package v1

import (
	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterEntityRoutes registers the routes for entities with
// the RouterGroup that is passed.
func RegisterEntityRoutes(r *gin.RouterGroup) {
	registerCodeRoutes(r, OptionsEntityList, OptionsEntityDetail, GetEntities, CreateEntities, GetEntity, UpdateEntity, DeleteEntity)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Entities
// @Success		204
// @Router			/v1/entities [options]
func OptionsEntityList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Entities
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/entities/{id} [options]
func OptionsEntityDetail(c *gin.Context) {
	optionsCodeDetail[models.Entity](c)
}

// @Summary		Create entity codes
// @Description	Creates new entity codes
// @Tags			Entities
// @Produce		json
// @Success		201		{object}	CodeCreateResponse
// @Failure		400		{object}	CodeCreateResponse
// @Failure		500		{object}	CodeCreateResponse
// @Param			codes	body		[]v1.CodeEditable	true	"Entities"
// @Router			/v1/entities [post]
func CreateEntities(c *gin.Context) {
	createCodes[models.Entity](c, "entities")
}

// @Summary		Get entity codes
// @Description	Returns a list of entity codes
// @Tags			Entities
// @Produce		json
// @Success		200	{object}	CodeListResponse
// @Failure		400	{object}	CodeListResponse
// @Failure		500	{object}	CodeListResponse
// @Router			/v1/entities [get]
// @Param			code	query	string	false	"Filter by code"
// @Param			parent	query	string	false	"Filter by parent code, empty for roots"
// @Param			alias	query	string	false	"Filter by alias"
// @Param			search	query	string	false	"Search for this text in code and alias"
// @Param			match	query	string	false	"Glob pattern the code must match"
// @Param			root	query	string	false	"Only return descendants of this code"
// @Param			offset	query	uint	false	"The offset of the first code returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of codes to return. Defaults to 50."
func GetEntities(c *gin.Context) {
	getCodes[models.Entity](c, "entities")
}

// @Summary		Get entity code
// @Description	Returns a specific entity code
// @Tags			Entities
// @Produce		json
// @Success		200	{object}	CodeResponse
// @Failure		400	{object}	CodeResponse
// @Failure		404	{object}	CodeResponse
// @Failure		500	{object}	CodeResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/entities/{id} [get]
func GetEntity(c *gin.Context) {
	getCode[models.Entity](c, "entities")
}

// @Summary		Update entity code
// @Description	Updates an existing entity code. Only values to be updated need to be specified.
// @Tags			Entities
// @Accept			json
// @Produce		json
// @Success		200		{object}	CodeResponse
// @Failure		400		{object}	CodeResponse
// @Failure		404		{object}	CodeResponse
// @Failure		500		{object}	CodeResponse
// @Param			id		path		string			true	"ID formatted as string"
// @Param			code	body		v1.CodeEditable	true	"Entity"
// @Router			/v1/entities/{id} [patch]
func UpdateEntity(c *gin.Context) {
	updateCode[models.Entity](c, "entities")
}

// @Summary		Delete entity code
// @Description	Deletes a entity code. Its children keep the reference to it.
// @Tags			Entities
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/entities/{id} [delete]
func DeleteEntity(c *gin.Context) {
	deleteCode[models.Entity](c)
}
