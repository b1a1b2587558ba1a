package blobs

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

func (r *PostgresRepository) Put(ctx context.Context, b *models.BlobPayload) error {
	query :=
		`INSERT INTO upload_blobs (upload_id, content_type, data, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (upload_id) DO UPDATE
		 SET content_type = EXCLUDED.content_type, data = EXCLUDED.data, created_at = EXCLUDED.created_at`

	if _, err := r.db.ExecContext(ctx, query, b.UploadID, b.ContentType, b.Data, b.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Take(ctx context.Context, uploadID string) (*models.BlobPayload, error) {
	query :=
		`DELETE FROM upload_blobs WHERE upload_id = $1
		 RETURNING upload_id, content_type, data, created_at`

	b := &models.BlobPayload{}
	err := r.db.QueryRowContext(ctx, query, uploadID).Scan(&b.UploadID, &b.ContentType, &b.Data, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM upload_blobs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
