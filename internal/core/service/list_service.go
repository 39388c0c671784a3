package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/todolist/internal/core/domain"
	"github.com/99minutos/todolist/internal/core/ports"
	"github.com/99minutos/todolist/internal/pkg/metrics"
)

const (
	// maxSaveAttempts bounds the read-modify-write retries on version conflicts.
	maxSaveAttempts = 3
	maxItemNameLen  = 200
)

// MutationQueue serializes work per key. fn runs after every earlier job
// submitted with the same key has finished.
type MutationQueue interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ListService implements the owner-scoped list use cases.
type ListService struct {
	repo                 ports.ListRepository
	queue                MutationQueue
	allowAnonymousDelete bool
	log                  zerolog.Logger
	newID                func() string
	now                  func() time.Time
}

// NewListService wires a ListService. A nil queue runs mutations inline.
// allowAnonymousDelete skips the ownership check on DeleteItem.
func NewListService(repo ports.ListRepository, queue MutationQueue, allowAnonymousDelete bool, log zerolog.Logger) *ListService {
	if queue == nil {
		queue = inlineQueue{}
	}
	return &ListService{
		repo:                 repo,
		queue:                queue,
		allowAnonymousDelete: allowAnonymousDelete,
		log:                  log,
		newID:                uuid.NewString,
		now:                  time.Now,
	}
}

// CreateDefaultList seeds the starter list for username. If the user already
// has a list it is returned unchanged.
func (s *ListService) CreateDefaultList(ctx context.Context, username string) (*domain.List, error) {
	list := domain.NewDefaultList(username, s.newID, s.now().UTC())

	err := s.repo.Create(ctx, list)
	if errors.Is(err, domain.ErrListExists) {
		s.log.Debug().Str("list", username).Msg("default list already present")
		return s.repo.FindByName(ctx, username)
	}
	if err != nil {
		return nil, fmt.Errorf("create default list: %w", err)
	}
	return list, nil
}

// GetList returns the list called name if requester owns it.
func (s *ListService) GetList(ctx context.Context, requester *domain.User, name string) (*domain.List, error) {
	if err := authorize(requester, name); err != nil {
		return nil, err
	}
	return s.repo.FindByName(ctx, name)
}

// AddItem appends a new item with a fresh id to the end of the list.
func (s *ListService) AddItem(ctx context.Context, requester *domain.User, name, itemName string) (*domain.List, error) {
	if err := authorize(requester, name); err != nil {
		return nil, err
	}

	itemName = strings.TrimSpace(itemName)
	if itemName == "" || len(itemName) > maxItemNameLen {
		return nil, domain.ErrInvalidItem
	}

	item := domain.Item{ID: s.newID(), Name: itemName}
	list, err := s.mutate(ctx, name, func(l *domain.List) bool {
		l.Append(item)
		return true
	})
	if err != nil {
		return nil, err
	}

	metrics.ItemsAddedTotal.Inc()
	s.log.Info().Str("list", name).Str("item_id", item.ID).Msg("item added")
	return list, nil
}

// DeleteItem removes the item with itemID. A missing item is not an error and
// leaves the list untouched.
func (s *ListService) DeleteItem(ctx context.Context, requester *domain.User, name, itemID string) (*domain.List, error) {
	if !s.allowAnonymousDelete {
		if err := authorize(requester, name); err != nil {
			return nil, err
		}
	}

	removed := false
	list, err := s.mutate(ctx, name, func(l *domain.List) bool {
		removed = l.Remove(itemID)
		return removed
	})
	if err != nil {
		return nil, err
	}

	if removed {
		metrics.ItemsDeletedTotal.Inc()
		s.log.Info().Str("list", name).Str("item_id", itemID).Msg("item deleted")
	}
	return list, nil
}

// mutate loads the list, applies change and saves it under the per-list queue.
// change returns false when it left the list untouched, which skips the save.
func (s *ListService) mutate(ctx context.Context, name string, change func(*domain.List) bool) (*domain.List, error) {
	var result *domain.List

	err := s.queue.Do(ctx, name, func(ctx context.Context) error {
		for attempt := 1; ; attempt++ {
			list, err := s.repo.FindByName(ctx, name)
			if err != nil {
				return err
			}
			if !change(list) {
				result = list
				return nil
			}
			list.UpdatedAt = s.now().UTC()

			err = s.repo.Save(ctx, list)
			if err == nil {
				result = list
				return nil
			}
			if !errors.Is(err, domain.ErrListConflict) {
				return fmt.Errorf("save list: %w", err)
			}

			metrics.ListConflictsTotal.Inc()
			if attempt == maxSaveAttempts {
				return err
			}
			s.log.Warn().Str("list", name).Int("attempt", attempt).Msg("list version conflict, retrying")
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// authorize enforces that only the session-resolved owner touches a list.
func authorize(requester *domain.User, name string) error {
	if requester == nil {
		return domain.ErrUnauthenticated
	}
	if requester.Username != name {
		return domain.ErrForbidden
	}
	return nil
}

type inlineQueue struct{}

func (inlineQueue) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
