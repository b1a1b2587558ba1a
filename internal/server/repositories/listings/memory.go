package listings

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Listing
	index map[string]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{index: make(map[string]int)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Listing, len(r.items))
	for i, l := range r.items {
		out[i] = l.Clone()
	}
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	l := r.items[i].Clone()
	return &l, nil
}

func (r *MemoryRepository) Add(ctx context.Context, l models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[l.ID]; ok {
		return common.ErrConflict
	}
	r.index[l.ID] = len(r.items)
	r.items = append(r.items, l.Clone())
	return nil
}

func (r *MemoryRepository) AppendPhoto(ctx context.Context, listingID string, photo models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[listingID]
	if !ok {
		return common.ErrorNotFound
	}
	r.items[i].Photos = append(r.items[i].Photos, photo)
	return nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}
