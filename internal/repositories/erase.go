package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
)

// eraseOrder deletes children before parents so the foreign key holds throughout.
var eraseOrder = []string{"user_reviews", "games", "users"}

// EraseRepository removes every persisted record.
type EraseRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewEraseRepository(db *sqlx.DB, txGetter TxGetter) *EraseRepository {
	return &EraseRepository{db: db, txGetter: txGetter}
}

// EraseAll deletes all rows of all tables. Without a request transaction in
// ctx it opens its own so the reset stays all-or-nothing.
func (r *EraseRepository) EraseAll(ctx context.Context) error {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return eraseWith(ctx, tx)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := eraseWith(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func eraseWith(ctx context.Context, exec sqlx.ExecerContext) error {
	for _, table := range eraseOrder {
		query := "DELETE FROM " + table

		res, err := exec.ExecContext(ctx, query)
		var rowsAffected int64
		if res != nil {
			rowsAffected, _ = res.RowsAffected()
		}

		logger.Log.Infow(
			"query", query,
			"result", rowsAffected,
			"error", err,
		)

		if err != nil {
			return err
		}
	}
	return nil
}
