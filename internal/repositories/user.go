package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername returns the user or nil when no such username exists.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	query := r.db.Rebind(`
		SELECT id, username, password, created_at
		FROM users
		WHERE username = ?
	`)

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username)

	logger.Log.Infow(
		"query", oneLine(query),
		"args", []any{username},
		"result", user.ID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Count returns the number of stored users.
func (r *UserReadRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "users")
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts the user unless the username is taken. The uniqueness check
// is the UNIQUE constraint itself, so concurrent registrations cannot both win.
// It reports false when the username already existed.
func (r *UserWriteRepository) Save(ctx context.Context, user models.UserDB) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO users (id, username, password, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO NOTHING
	`)
	args := []any{user.ID.String(), user.Username, user.Password, user.CreatedAt}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// password hash is not logged
	logger.Log.Infow(
		"query", oneLine(query),
		"args", []any{user.ID, user.Username, user.CreatedAt},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// UpdatePassword replaces the stored hash of username.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, username, password string) error {
	query := r.db.Rebind(`UPDATE users SET password = ? WHERE username = ?`)

	res, err := r.db.ExecContext(ctx, query, password, username)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", oneLine(query),
		"args", []any{username},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

func count(ctx context.Context, db *sqlx.DB, table string) (int64, error) {
	query := "SELECT COUNT(*) FROM " + table

	var n int64
	err := db.GetContext(ctx, &n, query)

	logger.Log.Infow(
		"query", query,
		"result", n,
		"error", err,
	)

	return n, err
}
