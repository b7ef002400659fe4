package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

// CatalogWriteRepository caches catalog items referenced by reviews.
type CatalogWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewCatalogWriteRepository(db *sqlx.DB, txGetter TxGetter) *CatalogWriteRepository {
	return &CatalogWriteRepository{db: db, txGetter: txGetter}
}

// SaveIfAbsent inserts the item unless a row with the same track id exists.
// An existing row is never modified: the first submitted metadata wins.
func (r *CatalogWriteRepository) SaveIfAbsent(ctx context.Context, item models.CatalogItemDB) (bool, error) {
	exec := executor(ctx, r.db, r.txGetter)
	query := exec.Rebind(`
		INSERT INTO games (track_id, name, title, description, images, rating)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (track_id) DO NOTHING
	`)
	args := []any{item.TrackID, item.Name, item.Title, item.Description, item.Images, item.Rating}

	res, err := exec.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", oneLine(query),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

type CatalogReadRepository struct {
	db *sqlx.DB
}

func NewCatalogReadRepository(db *sqlx.DB) *CatalogReadRepository {
	return &CatalogReadRepository{db: db}
}

// GetByTrackID returns the cached item or nil when it was never reviewed.
func (r *CatalogReadRepository) GetByTrackID(ctx context.Context, trackID int64) (*models.CatalogItem, error) {
	query := r.db.Rebind(`
		SELECT track_id, name, title, description, images, rating
		FROM games
		WHERE track_id = ?
	`)

	var row models.CatalogItemDB
	err := r.db.GetContext(ctx, &row, query, trackID)

	logger.Log.Infow(
		"query", oneLine(query),
		"args", []any{trackID},
		"result", row.TrackID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item := row.CatalogItem()
	return &item, nil
}

// Count returns the number of cached items.
func (r *CatalogReadRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "games")
}
