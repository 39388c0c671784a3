package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/todolist/internal/core/domain"
	"github.com/99minutos/todolist/internal/core/ports"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// DefaultListCreator seeds the list of a freshly registered user.
type DefaultListCreator interface {
	CreateDefaultList(ctx context.Context, username string) (*domain.List, error)
}

// AuthConfig holds the tunables of AuthService.
type AuthConfig struct {
	// SessionSecret signs session tokens.
	SessionSecret string
	// SessionTTL defaults to 24h.
	SessionTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// AuthService implements registration, login and session resolution.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	lists    DefaultListCreator
	tokens   *sessionTokens
	ttl      time.Duration
	cost     int
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	lists DefaultListCreator,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	s := &AuthService{
		users:    users,
		sessions: sessions,
		lists:    lists,
		ttl:      cfg.SessionTTL,
		cost:     cfg.BcryptCost,
		log:      log,
		now:      time.Now,
	}
	s.tokens = newSessionTokens(cfg.SessionSecret, func() time.Time { return s.now() })
	return s
}

// Register creates the account, seeds its default list and opens a session.
// A failure to seed the list is logged, not returned: the list page recreates
// a missing list on first view.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || len(password) > maxPasswordBytes {
		return nil, nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, nil, domain.ErrUserExists
		}
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	if _, err := s.lists.CreateDefaultList(ctx, created.Username); err != nil {
		s.log.Error().Err(err).Str("username", created.Username).Msg("failed to create default list")
	}

	session, err := s.openSession(ctx, created.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	return session, created, nil
}

// Login verifies the credentials and opens a new session. Unknown usernames
// and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	return session, user, nil
}

// ResolveSession maps a session token back to its user. Every way a token can
// be unusable collapses into domain.ErrUnauthenticated; only store failures
// are reported as-is.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	username, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if username != claims.Subject {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}

// Logout revokes the session behind token. Empty, malformed and expired tokens
// are accepted silently.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokens.parseUnverifiedExpiry(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("logout with unusable token")
		return nil
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, username string) (*domain.Session, error) {
	session, err := s.tokens.issue(username, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	if err := s.sessions.Save(ctx, session.ID, username, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}
