package v1

import (
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// registerCodeRoutes registers the routes shared by accounts, entities
// and projects.
func registerCodeRoutes(r *gin.RouterGroup, options, optionsDetail, list, create, get, update, del gin.HandlerFunc) {
	// Root group
	{
		r.OPTIONS("", options)
		r.GET("", list)
		r.POST("", create)
	}

	// Code with ID
	{
		r.OPTIONS("/:id", optionsDetail)
		r.GET("/:id", get)
		r.PATCH("/:id", update)
		r.DELETE("/:id", del)
	}
}

func optionsCodeDetail[T models.CodeRecord](c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var record T
	err = models.DB.First(&record, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

func createCodes[T models.CodeRecord](c *gin.Context, path string) {
	var editables []CodeEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CodeCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CodeCreateResponse{}

	for _, editable := range editables {
		record := models.NewCodeRecord[T](editable.model())
		err = models.DB.Create(&record).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCode(c, path, record)
		r.Data = append(r.Data, CodeResponse{Data: &data})
	}

	c.JSON(status, r)
}

func getCodes[T models.CodeRecord](c *gin.Context, path string) {
	var filter CodeQueryFilter

	// The filters contain only strings and numbers, so this will only fail
	// for unparseable offsets and limits
	_ = c.Bind(&filter)

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Model(new(T)).
		Order("code ASC")

	q = codeFilters(models.DB, q, setFields, filter)

	if filter.Root != "" || filter.Match != "" {
		codes, err := scopedCodes[T](filter)
		if err != nil {
			s := err.Error()
			c.JSON(status(err), CodeListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("code IN ?", codes)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	limit := limit(setFields, filter.Limit)
	q = q.Limit(limit)

	var records []T
	err := q.Find(&records).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CodeListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Code, 0, len(records))
	for _, record := range records {
		data = append(data, newCode(c, path, record))
	}

	c.JSON(http.StatusOK, CodeListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// scopedCodes returns the codes of the subtree below filter.Root, or all
// codes without a root, reduced to those matching filter.Match.
func scopedCodes[T models.CodeRecord](filter CodeQueryFilter) ([]string, error) {
	var codes []string
	if filter.Root != "" {
		tree, err := models.LoadTree[T](models.DB)
		if err != nil {
			return nil, err
		}
		codes = tree.Descendants(filter.Root)
	} else {
		err := models.DB.Model(new(T)).Pluck("code", &codes).Error
		if err != nil {
			return nil, err
		}
	}

	if filter.Match == "" {
		return codes, nil
	}

	matched := make([]string, 0, len(codes))
	for _, code := range codes {
		if glob.Glob(filter.Match, code) {
			matched = append(matched, code)
		}
	}
	return matched, nil
}

func getCode[T models.CodeRecord](c *gin.Context, path string) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	var record T
	err = models.DB.First(&record, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	data := newCode(c, path, record)
	c.JSON(http.StatusOK, CodeResponse{Data: &data})
}

func updateCode[T models.CodeRecord](c *gin.Context, path string) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	var record T
	err = models.DB.First(&record, "id = ?", uri.ID.UUID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, CodeEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	var data CodeEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	node := record.Node()
	if slices.Contains(updateFields, "Code") {
		node.Code = data.Code
	}
	if slices.Contains(updateFields, "Parent") {
		node.Parent = data.Parent
	}
	if slices.Contains(updateFields, "Alias") {
		node.Alias = data.Alias
	}

	record = models.WithNode(record, node)
	err = models.DB.Save(&record).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CodeResponse{
			Error: &s,
		})
		return
	}

	apiResource := newCode(c, path, record)
	c.JSON(http.StatusOK, CodeResponse{Data: &apiResource})
}

// deleteCode deletes the code. Children keep their parent reference.
func deleteCode[T models.CodeRecord](c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var record T
	err = models.DB.First(&record, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&record).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
