package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/domain"
)

const (
	routeHome     = "/"
	routeLogin    = "/login"
	routeRegister = "/register"
)

// redirectTarget maps a domain failure to the page the browser is sent to.
// ok is false for errors outside the redirect policy, which the HTTP error
// handler turns into an error page.
func redirectTarget(user *domain.User, err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return routeLogin, true
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrListNotFound),
		errors.Is(err, domain.ErrInvalidItem):
		if user == nil {
			return routeLogin, true
		}
		return views.ListPath(user.Username), true
	}
	return "", false
}

func redirect(c echo.Context, path string) error {
	return c.Redirect(http.StatusFound, path)
}
