package handler

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todolist/internal/api/cookie"
	"github.com/99minutos/todolist/internal/api/middleware"
	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/domain"
)

// currentUser returns the session-resolved user, or nil for anonymous requests.
// It is the only source of identity for authorization decisions.
func currentUser(c echo.Context) *domain.User {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	return user
}

// newPage fills the fields every view needs and consumes any pending flash.
func newPage(c echo.Context, title string) views.Page {
	page := views.Page{Title: title}
	if user := currentUser(c); user != nil {
		page.Username = user.Username
	}
	if msg, ok := cookie.ReadAndClearFlash(c.Response(), c.Request()); ok {
		page.Flash = msg
	}
	return page
}

// listParam returns the list name addressed by the path. Echo matches on the
// raw path, so reserved characters arrive still percent-encoded.
func listParam(c echo.Context) (string, error) {
	return url.PathUnescape(c.Param("urlUserName"))
}
