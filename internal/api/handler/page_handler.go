package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todolist/internal/api/views"
)

// PageHandler serves static informational pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// About handles GET /about.
func (h *PageHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, views.PageAbout, newPage(c, "About"))
}
