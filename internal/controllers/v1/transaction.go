package v1

import (
	"fmt"
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/budgetflow/backend/internal/types"
	"github.com/budgetflow/backend/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
		r.POST("", CreateTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.DELETE("/:id", DeleteTransaction)
	}

	// Transfer lines
	{
		r.OPTIONS("/:id/lines", OptionsTransferLineList)
		r.GET("/:id/lines", GetTransferLines)
		r.POST("/:id/lines", CreateTransferLines)
		r.OPTIONS("/:id/lines/:lineId", OptionsTransferLineDetail)
		r.PATCH("/:id/lines/:lineId", UpdateTransferLine)
		r.DELETE("/:id/lines/:lineId", DeleteTransferLine)
	}

	// Approval workflow
	{
		r.OPTIONS("/:id/actions", OptionsTransactionActions)
		r.GET("/:id/actions", GetTransactionActions)

		for _, event := range workflow.Events() {
			r.OPTIONS(fmt.Sprintf("/:id/%s", event), OptionsTransactionTransition)
			r.POST(fmt.Sprintf("/:id/%s", event), TransitionTransaction(event))
		}
	}
}

// transactionFromURI loads the transaction from the id in the path.
func transactionFromURI(c *gin.Context) (models.Transaction, error) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Transaction{}, err
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ?", uri.ID.UUID).Error
	return transaction, err
}

// transactionData returns the API representation of a transaction with its
// workflow state and, if withLines is set, its transfer lines.
func transactionData(c *gin.Context, transaction models.Transaction, withLines bool) (Transaction, error) {
	service := workflowService()
	instance, err := service.Instance(c.Request.Context(), transaction)
	if err != nil {
		return Transaction{}, err
	}

	data := newTransaction(c, transaction, instance, service.Templates())
	if !withLines {
		return data, nil
	}

	lines, err := transaction.Lines(models.DB.WithContext(c.Request.Context()))
	if err != nil {
		return Transaction{}, err
	}

	data.Lines = make([]TransferLine, 0, len(lines))
	for _, line := range lines {
		data.Lines = append(data.Lines, newTransferLine(c, line))
	}

	return data, nil
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	_, err := transactionFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetDelete(c)
}

// @Summary		Create transactions
// @Description	Creates transactions. The first three letters of the code select the approval template.
// @Tags			Transactions
// @Produce		json
// @Success		201				{object}	TransactionCreateResponse
// @Failure		400				{object}	TransactionCreateResponse
// @Failure		500				{object}	TransactionCreateResponse
// @Param			transactions	body		[]v1.TransactionEditable	true	"Transactions"
// @Router			/v1/transactions [post]
func CreateTransactions(c *gin.Context) {
	var editables []TransactionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TransactionCreateResponse{}

	for _, editable := range editables {
		transaction, err := editable.model()
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		err = models.DB.Create(&transaction).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data, err := transactionData(c, transaction, false)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}
		r.Data = append(r.Data, TransactionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get transactions
// @Description	Returns a list of transactions with their workflow state
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	TransactionListResponse
// @Failure		500	{object}	TransactionListResponse
// @Router			/v1/transactions [get]
// @Param			code		query	string	false	"Search for this text in the code"
// @Param			fiscalYear	query	int		false	"Filter by fiscal year"
// @Param			month		query	string	false	"Filter by month, 1-12 or a three letter abbreviation"
// @Param			status		query	string	false	"Filter by workflow status"	Enums(pending, in_progress, approved, rejected)
// @Param			search		query	string	false	"Search for this text in code and description"
// @Param			offset		query	uint	false	"The offset of the first Transaction returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Transactions to return. Defaults to 50."
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter

	// The filters contain only strings and numbers, so this will only fail
	// for unparseable offsets and limits
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Model(&models.Transaction{}).
		Order("created_at DESC").
		Where(filter.model(), queryFields...)

	if filter.Code != "" {
		q = q.Where("code LIKE ?", fmt.Sprintf("%%%s%%", filter.Code))
	}

	if filter.Month != "" {
		month, err := types.ParseFiscalMonth(filter.Month)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("month = ?", month.Abbreviation())
	}

	if filter.Status != "" {
		// Transactions that were never submitted have no instance and are pending
		if models.WorkflowStatus(filter.Status) == models.WorkflowPending {
			q = q.Where("id NOT IN (?)", models.DB.
				Model(&models.WorkflowInstance{}).
				Select("transaction_id").
				Where("status <> ?", models.WorkflowPending))
		} else {
			q = q.Where("id IN (?)", models.DB.
				Model(&models.WorkflowInstance{}).
				Select("transaction_id").
				Where("status = ?", filter.Status))
		}
	}

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("code LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := limit(setFields, filter.Limit)
	q = q.Limit(limit)

	var transactions []models.Transaction
	err := q.Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionListResponse{
			Error: &e,
		})
		return
	}

	// Load all instances of this page at once
	ids := make([]uuid.UUID, 0, len(transactions))
	for _, transaction := range transactions {
		ids = append(ids, transaction.ID)
	}

	var instances []models.WorkflowInstance
	if len(ids) > 0 {
		err = models.DB.Where("transaction_id IN ?", ids).Find(&instances).Error
		if err != nil {
			e := err.Error()
			c.JSON(status(err), TransactionListResponse{
				Error: &e,
			})
			return
		}
	}

	byTransaction := make(map[uuid.UUID]models.WorkflowInstance, len(instances))
	for _, instance := range instances {
		byTransaction[instance.TransactionID] = instance
	}

	templates := workflowService().Templates()
	data := make([]Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		instance, ok := byTransaction[transaction.ID]
		if !ok {
			template := templates.ForCode(transaction.Code)
			instance = models.WorkflowInstance{
				TransactionID: transaction.ID,
				Template:      template.Name,
				Status:        models.WorkflowPending,
				TotalStages:   len(template.Stages),
			}
		}
		data = append(data, newTransaction(c, transaction, instance, templates))
	}

	c.JSON(http.StatusOK, TransactionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction with its transfer lines and workflow state
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	TransactionResponse
// @Failure		404	{object}	TransactionResponse
// @Failure		500	{object}	TransactionResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	transaction, err := transactionFromURI(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	data, err := transactionData(c, transaction, true)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransactionResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: &data})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction with its lines and approval log. Transactions in progress or approved cannot be deleted.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		409	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id} [delete]
func DeleteTransaction(c *gin.Context) {
	transaction, err := transactionFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = workflowService().DeleteTransaction(c.Request.Context(), transaction)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/lines [options]
func OptionsTransferLineList(c *gin.Context) {
	_, err := transactionFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Get transfer lines
// @Description	Returns the transfer lines of a transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransferLineListResponse
// @Failure		400	{object}	TransferLineListResponse
// @Failure		404	{object}	TransferLineListResponse
// @Failure		500	{object}	TransferLineListResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/lines [get]
func GetTransferLines(c *gin.Context) {
	transaction, err := transactionFromURI(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineListResponse{
			Error: &s,
		})
		return
	}

	lines, err := transaction.Lines(models.DB.WithContext(c.Request.Context()))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineListResponse{
			Error: &s,
		})
		return
	}

	data := make([]TransferLine, 0, len(lines))
	for _, line := range lines {
		data = append(data, newTransferLine(c, line))
	}

	c.JSON(http.StatusOK, TransferLineListResponse{Data: data})
}

// @Summary		Create transfer lines
// @Description	Adds transfer lines to a pending transaction
// @Tags			Transactions
// @Produce		json
// @Success		201		{object}	TransferLineCreateResponse
// @Failure		400		{object}	TransferLineCreateResponse
// @Failure		404		{object}	TransferLineCreateResponse
// @Failure		409		{object}	TransferLineCreateResponse
// @Failure		500		{object}	TransferLineCreateResponse
// @Param			id		path		string						true	"ID formatted as string"
// @Param			lines	body		[]v1.TransferLineEditable	true	"Transfer lines"
// @Router			/v1/transactions/{id}/lines [post]
func CreateTransferLines(c *gin.Context) {
	transaction, err := transactionFromURI(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferLineCreateResponse{
			Error: &e,
		})
		return
	}

	var editables []TransferLineEditable

	// Bind data and return error if not possible
	err = httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransferLineCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TransferLineCreateResponse{}

	service := workflowService()
	for _, editable := range editables {
		line, err := service.AddLine(c.Request.Context(), transaction, editable.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newTransferLine(c, line)
		r.Data = append(r.Data, TransferLineResponse{Data: &data})
	}

	c.JSON(status, r)
}

// transferLineFromURI loads the transaction and one of its lines from the path.
func transferLineFromURI(c *gin.Context) (models.Transaction, models.TransferLine, error) {
	var uri URILineID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		return models.Transaction{}, models.TransferLine{}, err
	}

	var transaction models.Transaction
	err = models.DB.First(&transaction, "id = ?", uri.ID.UUID).Error
	if err != nil {
		return models.Transaction{}, models.TransferLine{}, err
	}

	var line models.TransferLine
	err = models.DB.First(&line, "id = ? AND transaction_id = ?", uri.LineID.UUID, transaction.ID).Error
	return transaction, line, err
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		string	true	"ID formatted as string"
// @Param			lineId	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/lines/{lineId} [options]
func OptionsTransferLineDetail(c *gin.Context) {
	_, _, err := transferLineFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPatchDelete(c)
}

// @Summary		Update transfer line
// @Description	Updates a transfer line of a pending transaction. Only values to be updated need to be specified.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	TransferLineResponse
// @Failure		400		{object}	TransferLineResponse
// @Failure		404		{object}	TransferLineResponse
// @Failure		409		{object}	TransferLineResponse
// @Failure		500		{object}	TransferLineResponse
// @Param			id		path		string					true	"ID formatted as string"
// @Param			lineId	path		string					true	"ID formatted as string"
// @Param			line	body		v1.TransferLineEditable	true	"Transfer line"
// @Router			/v1/transactions/{id}/lines/{lineId} [patch]
func UpdateTransferLine(c *gin.Context) {
	transaction, line, err := transferLineFromURI(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, TransferLineEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineResponse{
			Error: &s,
		})
		return
	}

	var data TransferLineEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineResponse{
			Error: &s,
		})
		return
	}

	if slices.Contains(updateFields, "CostCenter") {
		line.CostCenterCode = data.CostCenter
	}
	if slices.Contains(updateFields, "Account") {
		line.AccountCode = data.Account
	}
	if slices.Contains(updateFields, "Project") {
		line.ProjectCode = data.Project
	}
	if slices.Contains(updateFields, "FromAmount") {
		line.FromAmount = data.FromAmount
	}
	if slices.Contains(updateFields, "ToAmount") {
		line.ToAmount = data.ToAmount
	}
	if slices.Contains(updateFields, "Reason") {
		line.Reason = data.Reason
	}

	line, err = workflowService().UpdateLine(c.Request.Context(), transaction, line)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), TransferLineResponse{
			Error: &s,
		})
		return
	}

	apiLine := newTransferLine(c, line)
	c.JSON(http.StatusOK, TransferLineResponse{Data: &apiLine})
}

// @Summary		Delete transfer line
// @Description	Deletes a transfer line of a pending transaction
// @Tags			Transactions
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		409		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path		string	true	"ID formatted as string"
// @Param			lineId	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/lines/{lineId} [delete]
func DeleteTransferLine(c *gin.Context) {
	transaction, line, err := transferLineFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = workflowService().DeleteLine(c.Request.Context(), transaction, line)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/actions [options]
func OptionsTransactionActions(c *gin.Context) {
	_, err := transactionFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get approval log
// @Description	Returns all workflow actions taken on the transaction, oldest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	ApprovalActionListResponse
// @Failure		400	{object}	ApprovalActionListResponse
// @Failure		404	{object}	ApprovalActionListResponse
// @Failure		500	{object}	ApprovalActionListResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/actions [get]
func GetTransactionActions(c *gin.Context) {
	transaction, err := transactionFromURI(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApprovalActionListResponse{
			Error: &s,
		})
		return
	}

	db := models.DB.WithContext(c.Request.Context())
	instance, ok, err := transaction.Workflow(db)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ApprovalActionListResponse{
			Error: &s,
		})
		return
	}

	data := make([]ApprovalAction, 0)
	if ok {
		actions, err := instance.Actions(db)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), ApprovalActionListResponse{
				Error: &s,
			})
			return
		}

		for _, action := range actions {
			data = append(data, newApprovalAction(action))
		}
	}

	c.JSON(http.StatusOK, ApprovalActionListResponse{Data: data})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/transactions/{id}/submit [options]
// @Router			/v1/transactions/{id}/approve [options]
// @Router			/v1/transactions/{id}/reject [options]
// @Router			/v1/transactions/{id}/reopen [options]
func OptionsTransactionTransition(c *gin.Context) {
	_, err := transactionFromURI(c)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// TransitionTransaction returns the handler that applies event to the
// transaction in the path.
//
// @Summary		Workflow actions
// @Description	Submits, approves, rejects or reopens a transaction. Submitting validates the lines against the envelopes. Returns the updated transaction.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200		{object}	TransactionResponse
// @Failure		400		{object}	TransactionResponse
// @Failure		404		{object}	TransactionResponse
// @Failure		409		{object}	TransactionResponse
// @Failure		500		{object}	TransactionResponse
// @Param			id		path		string					true	"ID formatted as string"
// @Param			action	body		v1.TransitionEditable	false	"Actor and comment"
// @Router			/v1/transactions/{id}/submit [post]
// @Router			/v1/transactions/{id}/approve [post]
// @Router			/v1/transactions/{id}/reject [post]
// @Router			/v1/transactions/{id}/reopen [post]
func TransitionTransaction(event workflow.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		transaction, err := transactionFromURI(c)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{
				Error: &s,
			})
			return
		}

		// The body is optional
		var body TransitionEditable
		if c.Request.ContentLength != 0 {
			err = httputil.BindData(c, &body)
			if err != nil {
				s := err.Error()
				c.JSON(status(err), TransactionResponse{
					Error: &s,
				})
				return
			}
		}

		_, err = workflowService().Transition(c.Request.Context(), transaction.ID, event, body.Actor, body.Comment)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{
				Error: &s,
			})
			return
		}

		data, err := transactionData(c, transaction, true)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), TransactionResponse{
				Error: &s,
			})
			return
		}

		c.JSON(http.StatusOK, TransactionResponse{Data: &data})
	}
}
