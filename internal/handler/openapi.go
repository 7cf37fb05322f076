package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/posts-api/internal/server"
	"github.com/deppfellow/posts-api/static"
	"github.com/labstack/echo/v4"
)

const openAPIPage = "openapi.html"

// OpenAPIHandler serves the API reference page. The page loads
// /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  static.FS,
	}
}

// ServeOpenAPIUI writes the embedded docs page with caching disabled.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(h.assets, openAPIPage)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
