package ports

import (
	"context"

	"github.com/99minutos/todolist/internal/core/domain"
)

// ListService defines the owner-scoped list use cases. requester is the
// session-resolved user and may be nil for anonymous callers.
type ListService interface {
	CreateDefaultList(ctx context.Context, username string) (*domain.List, error)
	GetList(ctx context.Context, requester *domain.User, name string) (*domain.List, error)
	AddItem(ctx context.Context, requester *domain.User, name, itemName string) (*domain.List, error)
	DeleteItem(ctx context.Context, requester *domain.User, name, itemID string) (*domain.List, error)
}
