// Package version reports the build of the running server.
package version

import (
	"net/http"
	"runtime"

	"github.com/budgetflow/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Data Build `json:"data"` // The build of the running server
}

type Build struct {
	Name      string `json:"name" example:"budgetflow"`    // Name of the application
	Version   string `json:"version" example:"1.4.0"`      // Version of the backend
	GoVersion string `json:"goVersion" example:"go1.25.5"` // Go release the binary was built with
}

// RegisterRoutes registers the version endpoint. The build is fixed at
// registration.
func RegisterRoutes(r *gin.RouterGroup, version string) {
	build := Build{
		Name:      "budgetflow",
		Version:   version,
		GoVersion: runtime.Version(),
	}

	r.GET("", get(build))
	r.OPTIONS("", Options)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		API version
// @Description	Returns the name, version and Go release of the backend
// @Tags			General
// @Success		200	{object}	Response
// @Router			/version [get]
func get(build Build) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Response{Data: build})
	}
}
