// Package listings stores catalog listings in insertion order.
package listings

import (
	"context"

	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type Repository interface {
	// List returns every listing in insertion order. The records are copies.
	List(ctx context.Context) ([]models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	Add(ctx context.Context, l models.Listing) error
	// AppendPhoto adds a photo to an existing listing, or returns
	// common.ErrorNotFound.
	AppendPhoto(ctx context.Context, listingID string, photo models.Photo) error
	Count(ctx context.Context) (int, error)
}
