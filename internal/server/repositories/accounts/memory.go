package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. Records are copied on
// the way in and out.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*models.Account)}
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return common.ErrDuplicateAccount
	}
	r.byEmail[account.Email] = clone(account)
	return nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byEmail {
		if a.ID == id {
			return clone(a), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) Update(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byEmail[account.Email]
	if !ok || cur.ID != account.ID {
		return common.ErrorNotFound
	}
	cur.DisplayName = account.DisplayName
	cur.CampusSlug = account.CampusSlug
	cur.ClassYear = cloneInt(account.ClassYear)
	cur.Bio = account.Bio
	cur.UpdatedAt = account.UpdatedAt
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, email string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byEmail[email]
	if !ok {
		return "", nil
	}
	delete(r.byEmail, email)
	return a.ID, nil
}

// Len is the number of stored accounts.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}

func clone(a *models.Account) *models.Account {
	c := *a
	c.PasswordHash = append([]byte(nil), a.PasswordHash...)
	c.ClassYear = cloneInt(a.ClassYear)
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
