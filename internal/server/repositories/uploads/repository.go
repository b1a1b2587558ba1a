// Package uploads stores pending upload intents recorded by reservations.
package uploads

import (
	"context"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, p *models.PendingUpload) error
	// Take removes and returns the intent. It returns common.ErrorNotFound
	// when there is none; a second Take of the same id always does.
	Take(ctx context.Context, uploadID string) (*models.PendingUpload, error)
	// DeleteExpired drops intents created before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
