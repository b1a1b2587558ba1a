// Package blobs stores upload payloads between transfer and confirm.
package blobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type Repository interface {
	// Put stores the payload, replacing any earlier one for the same id.
	Put(ctx context.Context, b *models.BlobPayload) error
	// Take removes and returns the payload, or common.ErrorNotFound.
	Take(ctx context.Context, uploadID string) (*models.BlobPayload, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
