package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api/cookie"
	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/domain"
	"github.com/99minutos/todolist/internal/core/ports"
	"github.com/99minutos/todolist/internal/pkg/metrics"
)

const (
	flashUsernameTaken      = "That username is taken."
	flashInvalidCredentials = "Invalid username or password."
	flashTryAgain           = "Something went wrong, please try again."
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// Home handles GET /. Signed-in visitors go to their list, others to login.
func (h *AuthHandler) Home(c echo.Context) error {
	if user := currentUser(c); user != nil {
		return redirect(c, views.ListPath(user.Username))
	}
	return redirect(c, routeLogin)
}

// ShowRegister handles GET /register.
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return c.Render(http.StatusOK, views.PageRegister, newPage(c, "Register"))
}

// Register handles POST /register. Any failure goes back to the form.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return h.backTo(c, routeRegister, flashTryAgain)
	}
	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return h.backTo(c, routeRegister, err.Error())
	}

	session, user, err := h.authService.Register(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return h.backTo(c, routeRegister, flashUsernameTaken)
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return h.backTo(c, routeRegister, flashTryAgain)
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("username", form.Username).Msg("registration failed")
		return h.backTo(c, routeRegister, flashTryAgain)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	cookie.WriteSession(c.Response(), c.Request(), session.Token, session.ExpiresAt)
	return redirect(c, views.ListPath(user.Username))
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return c.Render(http.StatusOK, views.PageLogin, newPage(c, "Log in"))
}

// Login handles POST /login. Failures are logged and sent back to the form
// without saying whether the username or the password was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return h.backTo(c, routeLogin, flashInvalidCredentials)
	}
	if err := c.Validate(&form); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return h.backTo(c, routeLogin, flashInvalidCredentials)
	}

	session, user, err := h.authService.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			h.log.Warn().Str("username", form.Username).Msg("login rejected")
			return h.backTo(c, routeLogin, flashInvalidCredentials)
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		h.log.Error().Err(err).Str("username", form.Username).Msg("login failed")
		return h.backTo(c, routeLogin, flashTryAgain)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	cookie.WriteSession(c.Response(), c.Request(), session.Token, session.ExpiresAt)
	return redirect(c, views.ListPath(user.Username))
}

// Logout handles GET /logout. The cookie is cleared even if revoking the
// server-side session fails.
func (h *AuthHandler) Logout(c echo.Context) error {
	if token, ok := cookie.ReadSession(c.Request()); ok {
		if err := h.authService.Logout(c.Request().Context(), token); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
		}
	}
	cookie.ClearSession(c.Response(), c.Request())
	return redirect(c, routeHome)
}

func (h *AuthHandler) backTo(c echo.Context, path, flash string) error {
	cookie.WriteFlash(c.Response(), c.Request(), flash)
	return redirect(c, path)
}
