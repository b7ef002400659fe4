package repositories

import (
	"context"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
)

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// sqlitePragmas are applied to every SQLite connection in the pool.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		track_id BIGINT PRIMARY KEY,
		name TEXT,
		title TEXT,
		description TEXT,
		images TEXT,
		rating DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS user_reviews (
		id TEXT PRIMARY KEY,
		author_id TEXT NOT NULL,
		game_track_id BIGINT NOT NULL REFERENCES games (track_id),
		overall_rating DOUBLE PRECISION NOT NULL,
		value_rating DOUBLE PRECISION NOT NULL,
		ad_rating DOUBLE PRECISION NOT NULL,
		effort_rating DOUBLE PRECISION NOT NULL,
		enjoyment_rating DOUBLE PRECISION NOT NULL,
		offer_amount DOUBLE PRECISION NOT NULL,
		comment TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_user_reviews_game_created
		ON user_reviews (game_track_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// SQLiteDSN appends the connection pragmas to a SQLite file path.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(path)
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// Open connects to the database, sizes the pool and verifies connectivity.
func Open(ctx context.Context, driver, dsn string, maxOpenConns, maxIdleConns int) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = SQLiteDSN(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)

	return db, nil
}

// Migrate creates the tables and indexes when they do not exist yet.
// The statements are valid for both SQLite and PostgreSQL.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Log.Errorw("migration failed", "query", oneLine(stmt), "error", err)
			return fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Log.Infow("schema ready", "driver", db.DriverName())
	return nil
}

// TxGetter returns the transaction bound to ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

// executor picks the request transaction when one is bound to ctx.
func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

// oneLine collapses a query for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
