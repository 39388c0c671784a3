package ports

import (
	"context"

	"github.com/99minutos/todolist/internal/core/domain"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// Create inserts user and returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns domain.ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
