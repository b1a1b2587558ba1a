package blobs

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.Mutex
	blobs map[string]models.BlobPayload
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{blobs: make(map[string]models.BlobPayload)}
}

// Put keeps a private copy of the bytes; the caller may reuse its buffer.
func (r *MemoryRepository) Put(ctx context.Context, b *models.BlobPayload) error {
	c := *b
	c.Data = append([]byte(nil), b.Data...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.blobs[b.UploadID] = c
	return nil
}

func (r *MemoryRepository) Take(ctx context.Context, uploadID string) (*models.BlobPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blobs[uploadID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.blobs, uploadID)
	return &b, nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, b := range r.blobs {
		if b.CreatedAt.Before(cutoff) {
			delete(r.blobs, id)
			n++
		}
	}
	return n, nil
}
