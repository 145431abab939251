package v1

import (
	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterAccountRoutes registers the routes for accounts with
// the RouterGroup that is passed.
func RegisterAccountRoutes(r *gin.RouterGroup) {
	registerCodeRoutes(r, OptionsAccountList, OptionsAccountDetail, GetAccounts, CreateAccounts, GetAccount, UpdateAccount, DeleteAccount)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Router			/v1/accounts [options]
func OptionsAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [options]
func OptionsAccountDetail(c *gin.Context) {
	optionsCodeDetail[models.Account](c)
}

// @Summary		Create account codes
// @Description	Creates new account codes
// @Tags			Accounts
// @Produce		json
// @Success		201		{object}	CodeCreateResponse
// @Failure		400		{object}	CodeCreateResponse
// @Failure		500		{object}	CodeCreateResponse
// @Param			codes	body		[]v1.CodeEditable	true	"Accounts"
// @Router			/v1/accounts [post]
func CreateAccounts(c *gin.Context) {
	createCodes[models.Account](c, "accounts")
}

// @Summary		Get account codes
// @Description	Returns a list of account codes
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	CodeListResponse
// @Failure		400	{object}	CodeListResponse
// @Failure		500	{object}	CodeListResponse
// @Router			/v1/accounts [get]
// @Param			code	query	string	false	"Filter by code"
// @Param			parent	query	string	false	"Filter by parent code, empty for roots"
// @Param			alias	query	string	false	"Filter by alias"
// @Param			search	query	string	false	"Search for this text in code and alias"
// @Param			match	query	string	false	"Glob pattern the code must match"
// @Param			root	query	string	false	"Only return descendants of this code"
// @Param			offset	query	uint	false	"The offset of the first code returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of codes to return. Defaults to 50."
func GetAccounts(c *gin.Context) {
	getCodes[models.Account](c, "accounts")
}

// @Summary		Get account code
// @Description	Returns a specific account code
// @Tags			Accounts
// @Produce		json
// @Success		200	{object}	CodeResponse
// @Failure		400	{object}	CodeResponse
// @Failure		404	{object}	CodeResponse
// @Failure		500	{object}	CodeResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [get]
func GetAccount(c *gin.Context) {
	getCode[models.Account](c, "accounts")
}

// @Summary		Update account code
// @Description	Updates an existing account code. Only values to be updated need to be specified.
// @Tags			Accounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	CodeResponse
// @Failure		400		{object}	CodeResponse
// @Failure		404		{object}	CodeResponse
// @Failure		500		{object}	CodeResponse
// @Param			id		path		string			true	"ID formatted as string"
// @Param			code	body		v1.CodeEditable	true	"Account"
// @Router			/v1/accounts/{id} [patch]
func UpdateAccount(c *gin.Context) {
	updateCode[models.Account](c, "accounts")
}

// @Summary		Delete account code
// @Description	Deletes a account code. Its children keep the reference to it.
// @Tags			Accounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/accounts/{id} [delete]
func DeleteAccount(c *gin.Context) {
	deleteCode[models.Account](c)
}
