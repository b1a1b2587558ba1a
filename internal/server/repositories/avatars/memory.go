package avatars

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]models.Avatar
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string]models.Avatar)}
}

func (r *MemoryRepository) Set(ctx context.Context, a *models.Avatar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[a.UserID] = *a
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, userID string) (*models.Avatar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byUser[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}
