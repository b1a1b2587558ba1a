// Package avatars keeps the current avatar URL of each user.
package avatars

import (
	"context"

	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type Repository interface {
	Set(ctx context.Context, a *models.Avatar) error
	Get(ctx context.Context, userID string) (*models.Avatar, error)
	// Delete is a no-op for users without an avatar.
	Delete(ctx context.Context, userID string) error
}
