package listings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
)

// PostgresRepository stores each listing as a JSONB document. The seq
// column keeps insertion order.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM listings ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Listing, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		l, err := decode(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	var doc []byte
	if err := r.db.QueryRowContext(ctx, `SELECT doc FROM listings WHERE id = $1`, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	l, err := decode(doc)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PostgresRepository) Add(ctx context.Context, l models.Listing) error {
	l.IsOwn = false
	if l.Photos == nil {
		l.Photos = []models.Photo{}
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO listings (id, doc) VALUES ($1, $2)`, l.ID, doc); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AppendPhoto(ctx context.Context, listingID string, photo models.Photo) error {
	p, err := json.Marshal([]models.Photo{photo})
	if err != nil {
		return fmt.Errorf("encode photo: %w", err)
	}
	query :=
		`UPDATE listings
		 SET doc = jsonb_set(doc, '{photos}', COALESCE(doc->'photos', '[]'::jsonb) || $2::jsonb)
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, listingID, p)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func decode(doc []byte) (models.Listing, error) {
	var l models.Listing
	if err := json.Unmarshal(doc, &l); err != nil {
		return models.Listing{}, fmt.Errorf("decode listing: %w", err)
	}
	if l.Photos == nil {
		l.Photos = []models.Photo{}
	}
	return l, nil
}
