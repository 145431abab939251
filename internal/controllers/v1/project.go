package v1

import (
	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterProjectRoutes registers the routes for projects with
// the RouterGroup that is passed.
func RegisterProjectRoutes(r *gin.RouterGroup) {
	registerCodeRoutes(r, OptionsProjectList, OptionsProjectDetail, GetProjects, CreateProjects, GetProject, UpdateProject, DeleteProject)

	// Envelope resolution, the path parameter is the project code
	{
		r.OPTIONS("/:id/envelope", OptionsProjectEnvelope)
		r.GET("/:id/envelope", GetProjectEnvelope)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Projects
// @Success		204
// @Router			/v1/projects [options]
func OptionsProjectList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Projects
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/projects/{id} [options]
func OptionsProjectDetail(c *gin.Context) {
	optionsCodeDetail[models.Project](c)
}

// @Summary		Create project codes
// @Description	Creates new project codes
// @Tags			Projects
// @Produce		json
// @Success		201		{object}	CodeCreateResponse
// @Failure		400		{object}	CodeCreateResponse
// @Failure		500		{object}	CodeCreateResponse
// @Param			codes	body		[]v1.CodeEditable	true	"Projects"
// @Router			/v1/projects [post]
func CreateProjects(c *gin.Context) {
	createCodes[models.Project](c, "projects")
}

// @Summary		Get project codes
// @Description	Returns a list of project codes
// @Tags			Projects
// @Produce		json
// @Success		200	{object}	CodeListResponse
// @Failure		400	{object}	CodeListResponse
// @Failure		500	{object}	CodeListResponse
// @Router			/v1/projects [get]
// @Param			code	query	string	false	"Filter by code"
// @Param			parent	query	string	false	"Filter by parent code, empty for roots"
// @Param			alias	query	string	false	"Filter by alias"
// @Param			search	query	string	false	"Search for this text in code and alias"
// @Param			match	query	string	false	"Glob pattern the code must match"
// @Param			root	query	string	false	"Only return descendants of this code"
// @Param			offset	query	uint	false	"The offset of the first code returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of codes to return. Defaults to 50."
func GetProjects(c *gin.Context) {
	getCodes[models.Project](c, "projects")
}

// @Summary		Get project code
// @Description	Returns a specific project code
// @Tags			Projects
// @Produce		json
// @Success		200	{object}	CodeResponse
// @Failure		400	{object}	CodeResponse
// @Failure		404	{object}	CodeResponse
// @Failure		500	{object}	CodeResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/projects/{id} [get]
func GetProject(c *gin.Context) {
	getCode[models.Project](c, "projects")
}

// @Summary		Update project code
// @Description	Updates an existing project code. Only values to be updated need to be specified.
// @Tags			Projects
// @Accept			json
// @Produce		json
// @Success		200		{object}	CodeResponse
// @Failure		400		{object}	CodeResponse
// @Failure		404		{object}	CodeResponse
// @Failure		500		{object}	CodeResponse
// @Param			id		path		string			true	"ID formatted as string"
// @Param			code	body		v1.CodeEditable	true	"Project"
// @Router			/v1/projects/{id} [patch]
func UpdateProject(c *gin.Context) {
	updateCode[models.Project](c, "projects")
}

// @Summary		Delete project code
// @Description	Deletes a project code. Its children keep the reference to it.
// @Tags			Projects
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/projects/{id} [delete]
func DeleteProject(c *gin.Context) {
	deleteCode[models.Project](c)
}
