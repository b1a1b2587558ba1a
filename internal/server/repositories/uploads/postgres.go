package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, p *models.PendingUpload) error {
	query :=
		`INSERT INTO pending_uploads (upload_id, purpose, listing_id, user_id, storage_key, content_type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		p.UploadID, p.Purpose, p.ListingID, p.UserID, p.StorageKey, p.ContentType, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Take is a single DELETE ... RETURNING, so concurrent takes of one id see
// the row at most once.
func (r *PostgresRepository) Take(ctx context.Context, uploadID string) (*models.PendingUpload, error) {
	query :=
		`DELETE FROM pending_uploads WHERE upload_id = $1
		 RETURNING upload_id, purpose, listing_id, user_id, storage_key, content_type, created_at`

	p := &models.PendingUpload{}
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(
		&p.UploadID, &p.Purpose, &p.ListingID, &p.UserID, &p.StorageKey, &p.ContentType, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_uploads WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
