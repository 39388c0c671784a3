package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/todolist/internal/api/cookie"
	"github.com/99minutos/todolist/internal/api/middleware"
	"github.com/99minutos/todolist/internal/api/views"
	"github.com/99minutos/todolist/internal/core/domain"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = views.MustNewRenderer()
	return e
}

// formContext builds a context for a urlencoded POST, signed in as user when non-nil.
func formContext(e *echo.Echo, path string, form url.Values, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return c, rec
}

func getContext(e *echo.Echo, path string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.UserKey, user)
	}
	return c, rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != want {
		t.Fatalf("expected redirect to %q, got %q", want, got)
	}
}

// flashFrom decodes the flash cookie written to rec, if any.
func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookie.FlashName {
			req.AddCookie(ck)
		}
	}
	msg, _ := cookie.ReadAndClearFlash(httptest.NewRecorder(), req)
	return msg
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookie.SessionName {
			return ck
		}
	}
	return nil
}

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	logoutFn   func(ctx context.Context, token string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ResolveSession(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, token)
}

type stubListService struct {
	createFn func(ctx context.Context, username string) (*domain.List, error)
	getFn    func(ctx context.Context, requester *domain.User, name string) (*domain.List, error)
	addFn    func(ctx context.Context, requester *domain.User, name, itemName string) (*domain.List, error)
	deleteFn func(ctx context.Context, requester *domain.User, name, itemID string) (*domain.List, error)
}

func (s *stubListService) CreateDefaultList(ctx context.Context, username string) (*domain.List, error) {
	return s.createFn(ctx, username)
}

func (s *stubListService) GetList(ctx context.Context, requester *domain.User, name string) (*domain.List, error) {
	return s.getFn(ctx, requester, name)
}

func (s *stubListService) AddItem(ctx context.Context, requester *domain.User, name, itemName string) (*domain.List, error) {
	return s.addFn(ctx, requester, name, itemName)
}

func (s *stubListService) DeleteItem(ctx context.Context, requester *domain.User, name, itemID string) (*domain.List, error) {
	return s.deleteFn(ctx, requester, name, itemID)
}
