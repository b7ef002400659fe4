package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

type ReviewWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewReviewWriteRepository(db *sqlx.DB, txGetter TxGetter) *ReviewWriteRepository {
	return &ReviewWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a review. The referenced catalog item must already exist.
func (r *ReviewWriteRepository) Save(ctx context.Context, review models.ReviewDB) error {
	exec := executor(ctx, r.db, r.txGetter)
	query := exec.Rebind(`
		INSERT INTO user_reviews (
			id, author_id, game_track_id,
			overall_rating, value_rating, ad_rating, effort_rating, enjoyment_rating,
			offer_amount, comment, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	args := []any{
		review.ID, review.AuthorID, review.GameTrackID,
		review.OverallRating, review.ValueRating, review.AdRating, review.EffortRating, review.EnjoymentRating,
		review.OfferAmount, review.Comment, review.CreatedAt, review.UpdatedAt,
	}

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

	return err
}

type ReviewReadRepository struct {
	db *sqlx.DB
}

func NewReviewReadRepository(db *sqlx.DB) *ReviewReadRepository {
	return &ReviewReadRepository{db: db}
}

// ListByTrackID returns the reviews of an item, newest first.
// The result is empty, never nil, when the item has no reviews.
func (r *ReviewReadRepository) ListByTrackID(ctx context.Context, trackID int64) ([]models.Review, error) {
	query := r.db.Rebind(`
		SELECT overall_rating, value_rating, ad_rating, effort_rating, enjoyment_rating,
		       offer_amount, COALESCE(comment, '') AS comment, created_at
		FROM user_reviews
		WHERE game_track_id = ?
		ORDER BY created_at DESC
	`)

	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, query, trackID)

	logger.Log.Infow(
		"query", oneLine(query),
		"args", []any{trackID},
		"result", len(reviews),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Count returns the number of stored reviews.
func (r *ReviewReadRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, "user_reviews")
}
