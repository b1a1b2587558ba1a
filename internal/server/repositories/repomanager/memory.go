package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/avatars"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/blobs"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/listings"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/uploads"
)

// MemoryRepositoryManager owns one in-memory repository per registry for
// the life of the process. The db handle is ignored.
type MemoryRepositoryManager struct {
	accounts *accounts.MemoryRepository
	uploads  *uploads.MemoryRepository
	blobs    *blobs.MemoryRepository
	avatars  *avatars.MemoryRepository
	listings *listings.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		accounts: accounts.NewMemoryRepository(),
		uploads:  uploads.NewMemoryRepository(),
		blobs:    blobs.NewMemoryRepository(),
		avatars:  avatars.NewMemoryRepository(),
		listings: listings.NewMemoryRepository(),
	}
}

// RunMigrations has nothing to do in memory.
func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Accounts(dbx.DBTX) accounts.Repository { return m.accounts }
func (m *MemoryRepositoryManager) Uploads(dbx.DBTX) uploads.Repository   { return m.uploads }
func (m *MemoryRepositoryManager) Blobs(dbx.DBTX) blobs.Repository       { return m.blobs }
func (m *MemoryRepositoryManager) Avatars(dbx.DBTX) avatars.Repository   { return m.avatars }
func (m *MemoryRepositoryManager) Listings(dbx.DBTX) listings.Repository { return m.listings }
