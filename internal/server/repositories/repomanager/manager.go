// Package repomanager hands out repositories bound to a database handle, so
// services can run the same code against process memory or Postgres and
// inside or outside a transaction.
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

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Uploads(db dbx.DBTX) uploads.Repository
	Blobs(db dbx.DBTX) blobs.Repository
	Avatars(db dbx.DBTX) avatars.Repository
	Listings(db dbx.DBTX) listings.Repository
}
