package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/api/cookie"
	"github.com/99minutos/todolist/internal/core/domain"
)

type stubAuth struct {
	users map[string]*domain.User // token -> user
}

func (s *stubAuth) Register(_ context.Context, username, _ string) (*domain.Session, *domain.User, error) {
	user := &domain.User{Username: username}
	token := fmt.Sprintf("tok-%d", len(s.users)+1)
	s.users[token] = user
	return &domain.Session{Token: token, Username: username, ExpiresAt: time.Now().Add(time.Hour)}, user, nil
}

func (s *stubAuth) Login(context.Context, string, string) (*domain.Session, *domain.User, error) {
	return nil, nil, domain.ErrInvalidCredentials
}

func (s *stubAuth) ResolveSession(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	delete(s.users, token)
	return nil
}

type stubLists struct {
	lists map[string]*domain.List
}

func (s *stubLists) CreateDefaultList(_ context.Context, username string) (*domain.List, error) {
	l := &domain.List{Name: username, Items: []domain.Item{{ID: "d1", Name: "Welcome to your todolist"}}}
	s.lists[username] = l
	return l, nil
}

func (s *stubLists) GetList(_ context.Context, requester *domain.User, name string) (*domain.List, error) {
	if requester.Username != name {
		return nil, domain.ErrForbidden
	}
	l, ok := s.lists[name]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return l, nil
}

func (s *stubLists) AddItem(_ context.Context, requester *domain.User, name, itemName string) (*domain.List, error) {
	l := s.lists[name]
	l.Append(domain.Item{ID: "n1", Name: itemName})
	return l, nil
}

func (s *stubLists) DeleteItem(_ context.Context, requester *domain.User, name, itemID string) (*domain.List, error) {
	if requester == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.lists[name], nil
}

func newStubAuth() *stubAuth {
	return &stubAuth{users: map[string]*domain.User{}}
}

func TestRouter_Flow(t *testing.T) {
	auth := newStubAuth()
	e := NewRouter(Deps{Auth: auth, Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

	// Anonymous visitors are sent to login.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lists/alice", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	// Register issues a session cookie.
	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/lists/alice" {
		t.Fatalf("expected redirect to /lists/alice, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	var session *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookie.SessionName {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("no session cookie")
	}

	// The list is created on first view.
	req = httptest.NewRequest(http.MethodGet, "/lists/alice", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Welcome to your todolist") {
		t.Fatalf("default item missing")
	}

	// Someone else's list redirects to your own.
	req = httptest.NewRequest(http.MethodGet, "/lists/bob", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/lists/alice" {
		t.Fatalf("expected redirect to own list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_AnonymousDeleteRedirectsToLogin(t *testing.T) {
	e := NewRouter(Deps{Auth: newStubAuth(), Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

	form := url.Values{"checkbox": {"i1"}, "listName": {"alice"}}
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_ProbesAndAssets(t *testing.T) {
	e := NewRouter(Deps{Auth: newStubAuth(), Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/static/css/styles.css", "/about", "/login", "/register"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_UnknownRouteRendersErrorPage(t *testing.T) {
	e := NewRouter(Deps{Auth: newStubAuth(), Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "404") {
		t.Fatalf("error page not rendered: %s", rec.Body.String())
	}
}

func TestRouter_ReservedCharactersInUsername(t *testing.T) {
	for _, username := range []string{"a,b", "a;b", "a b", "a+b", "bob@x"} {
		t.Run(username, func(t *testing.T) {
			e := NewRouter(Deps{Auth: newStubAuth(), Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

			form := url.Values{"username": {username}, "password": {"pw1"}}
			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			location := rec.Header().Get("Location")
			if rec.Code != http.StatusFound || !strings.HasPrefix(location, "/lists/") {
				t.Fatalf("expected redirect to the list, got %d %q", rec.Code, location)
			}

			req = httptest.NewRequest(http.MethodGet, location, nil)
			for _, ck := range rec.Result().Cookies() {
				req.AddCookie(ck)
			}
			rec = httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s: expected 200, got %d (Location %q)", location, rec.Code, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouter_DotUsernamesRejected(t *testing.T) {
	for _, username := range []string{".", ".."} {
		e := NewRouter(Deps{Auth: newStubAuth(), Lists: &stubLists{lists: map[string]*domain.List{}}, Log: zerolog.Nop()})

		form := url.Values{"username": {username}, "password": {"pw1"}}
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/register" {
			t.Fatalf("%q: expected redirect to /register, got %d %q", username, rec.Code, rec.Header().Get("Location"))
		}
	}
}
