package ports

import (
	"context"

	"github.com/99minutos/todolist/internal/core/domain"
)

// ListRepository persists one list document per user.
type ListRepository interface {
	// Create inserts a new list and returns domain.ErrListExists when a list
	// with the same name is already stored.
	Create(ctx context.Context, list *domain.List) error
	// FindByName returns domain.ErrListNotFound when no list matches.
	FindByName(ctx context.Context, name string) (*domain.List, error)
	// Save writes the full item sequence only if the stored version still
	// equals list.Version, then bumps list.Version. A stale version yields
	// domain.ErrListConflict.
	Save(ctx context.Context, list *domain.List) error
}
