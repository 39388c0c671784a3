package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api/cookie"
	"github.com/99minutos/todolist/internal/core/domain"
)

// UserKey is the echo context key holding the session-resolved *domain.User.
const UserKey = "user"

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
}

// LoadSession resolves the session cookie, if any, and stores the user under
// UserKey. Requests without a usable session continue anonymously.
func LoadSession(resolver SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := cookie.ReadSession(c.Request())
			if !ok {
				return next(c)
			}

			user, err := resolver.ResolveSession(c.Request().Context(), token)
			switch {
			case err == nil:
				c.Set(UserKey, user)
			case errors.Is(err, domain.ErrUnauthenticated):
				cookie.ClearSession(c.Response(), c.Request())
			default:
				log.Warn().Err(err).Str("path", c.Path()).Msg("session lookup failed")
			}
			return next(c)
		}
	}
}

// RequireSession sends anonymous requests to loginPath.
func RequireSession(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(UserKey).(*domain.User); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}
