package uploads

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type MemoryRepository struct {
	mu      sync.Mutex
	pending map[string]models.PendingUpload
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{pending: make(map[string]models.PendingUpload)}
}

func (r *MemoryRepository) Save(ctx context.Context, p *models.PendingUpload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[p.UploadID] = *p
	return nil
}

func (r *MemoryRepository) Take(ctx context.Context, uploadID string) (*models.PendingUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pending[uploadID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.pending, uploadID)
	return &p, nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, p := range r.pending {
		if p.CreatedAt.Before(cutoff) {
			delete(r.pending, id)
			n++
		}
	}
	return n, nil
}
