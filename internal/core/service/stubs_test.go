package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/99minutos/todolist/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = "user-" + user.Username
	}
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
	ttls     map[string]time.Duration
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{
		sessions: make(map[string]string),
		ttls:     make(map[string]time.Duration),
	}
}

func (s *stubSessionStore) Save(_ context.Context, id, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[id] = username
	s.ttls[id] = ttl
	return nil
}

func (s *stubSessionStore) Lookup(_ context.Context, id string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.sessions[id]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return username, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// stubListRepo mirrors the versioned conditional save of the Mongo repository.
type stubListRepo struct {
	mu        sync.Mutex
	lists     map[string]*domain.List
	saves     int
	conflicts int   // number of upcoming Save calls that report a conflict
	createErr error // if set, Create returns this error
}

func newStubListRepo() *stubListRepo {
	return &stubListRepo{lists: make(map[string]*domain.List)}
}

func cloneList(l *domain.List) *domain.List {
	clone := *l
	clone.Items = append([]domain.Item(nil), l.Items...)
	return &clone
}

func (r *stubListRepo) Create(_ context.Context, list *domain.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.lists[list.Name]; exists {
		return domain.ErrListExists
	}
	list.ID = "list-" + list.Name
	r.lists[list.Name] = cloneList(list)
	return nil
}

func (r *stubListRepo) FindByName(_ context.Context, name string) (*domain.List, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lists[name]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	return cloneList(l), nil
}

func (r *stubListRepo) Save(_ context.Context, list *domain.List) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return domain.ErrListConflict
	}
	stored, ok := r.lists[list.Name]
	if !ok || stored.Version != list.Version {
		return domain.ErrListConflict
	}
	list.Version++
	r.lists[list.Name] = cloneList(list)
	return nil
}

func (r *stubListRepo) get(name string) *domain.List {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneList(r.lists[name])
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
