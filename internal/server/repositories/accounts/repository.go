// Package accounts stores registered marketplace accounts keyed by email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type Repository interface {
	// Create inserts the account unless its email is taken, in which case it
	// returns common.ErrDuplicateAccount. Check and insert are one step.
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// Update rewrites the mutable profile fields of an existing account.
	Update(ctx context.Context, account *models.Account) error
	// Delete removes the account and returns its id, or "" when absent.
	Delete(ctx context.Context, email string) (string, error)
}
