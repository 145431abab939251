package v1

import (
	"fmt"
	"net/http"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/budgetflow/backend/internal/importer"
	"github.com/budgetflow/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterUploadRoutes registers the routes for bulk uploads with
// the RouterGroup that is passed.
func RegisterUploadRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/:kind", OptionsUpload)
	r.POST("/:kind", Upload)
}

type URIKind struct {
	Kind string `uri:"kind" binding:"required"` // The kind of data in the file
}

type UploadResponse struct {
	Data  *importer.Summary `json:"data"`                                                               // What the upload changed
	Error *string           `json:"error" example:"unsupported file format, use xlsx, xls or csv"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Uploads
// @Success		204
// @Param			kind	path	string	true	"projects, accounts, entities, envelopes, account-mappings or budget-data"
// @Router			/v1/uploads/{kind} [options]
func OptionsUpload(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Upload master data
// @Description	Imports the rows of an xlsx, xls or csv file. Existing rows are updated, rows that fail are reported without affecting the others.
// @Tags			Uploads
// @Accept			multipart/form-data
// @Produce		json
// @Success		200		{object}	UploadResponse
// @Failure		400		{object}	UploadResponse
// @Failure		404		{object}	UploadResponse
// @Failure		500		{object}	UploadResponse
// @Param			kind	path		string	true	"projects, accounts, entities, envelopes, account-mappings or budget-data"
// @Param			file	formData	file	true	"File to import"
// @Router			/v1/uploads/{kind} [post]
func Upload(c *gin.Context) {
	var uri URIKind
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}

	kind := importer.Kind(uri.Kind)
	if !slices.Contains(importer.Kinds, kind) {
		err := fmt.Errorf("%w %q", importer.ErrUnknownKind, uri.Kind)
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}

	formFile, err := c.FormFile("file")
	if formFile == nil {
		s := httputil.ErrNoFile.Error()
		c.JSON(http.StatusBadRequest, UploadResponse{
			Error: &s,
		})
		return
	}

	if err != nil {
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}

	f, err := formFile.Open()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}
	defer f.Close()

	file, err := importer.Read(f, formFile.Filename)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}

	summary, err := importer.Import(models.DB.WithContext(c.Request.Context()), kind, file)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UploadResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{Data: &summary})
}
