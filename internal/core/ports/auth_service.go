package ports

import (
	"context"

	"github.com/99minutos/todolist/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	ResolveSession(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}
