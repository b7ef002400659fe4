package services

//go:generate mockgen -source=review.go -destination=review_mock_test.go -package=services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
	"github.com/segmentio/kafka-go"
)

// ErrItemNotFound is returned when a catalog item was never cached.
var ErrItemNotFound = errors.New("catalog item not found")

// CatalogWriter caches catalog items.
type CatalogWriter interface {
	SaveIfAbsent(ctx context.Context, item models.CatalogItemDB) (bool, error)
}

// CatalogReader reads cached catalog items.
type CatalogReader interface {
	GetByTrackID(ctx context.Context, trackID int64) (*models.CatalogItem, error)
}

// ReviewWriter persists reviews.
type ReviewWriter interface {
	Save(ctx context.Context, review models.ReviewDB) error
}

// ReviewReader lists reviews of an item, newest first.
type ReviewReader interface {
	ListByTrackID(ctx context.Context, trackID int64) ([]models.Review, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReviewService stores reviews together with the item they reference.
type ReviewService struct {
	catalogWriter CatalogWriter
	catalogReader CatalogReader
	reviewWriter  ReviewWriter
	reviewReader  ReviewReader
	kafkaWriter   KafkaWriter
	now           func() time.Time
}

// NewReviewService creates a new ReviewService. kafkaWriter may be nil.
func NewReviewService(
	catalogWriter CatalogWriter,
	catalogReader CatalogReader,
	reviewWriter ReviewWriter,
	reviewReader ReviewReader,
	kafkaWriter KafkaWriter,
) *ReviewService {
	return &ReviewService{
		catalogWriter: catalogWriter,
		catalogReader: catalogReader,
		reviewWriter:  reviewWriter,
		reviewReader:  reviewReader,
		kafkaWriter:   kafkaWriter,
		now:           time.Now,
	}
}

// Create caches the item if it is new and stores the review attributed to author.
// Both writes must share the transaction bound to ctx to stay all-or-nothing.
func (s *ReviewService) Create(
	ctx context.Context,
	author string,
	item models.ItemRef,
	content models.ReviewContent,
) (*models.ReviewCreated, error) {
	inserted, err := s.catalogWriter.SaveIfAbsent(ctx, models.NewCatalogItemDB(item))
	if err != nil {
		logger.Log.Errorw("failed to cache catalog item", "trackID", item.TrackID, "error", err)
		return nil, err
	}
	if inserted {
		logger.Log.Infow("catalog item cached", "trackID", item.TrackID)
	}

	review := models.ReviewDB{
		ID:              uuid.NewString(),
		AuthorID:        author,
		GameTrackID:     item.TrackID,
		OverallRating:   content.OverallRating,
		ValueRating:     content.ValueRating,
		AdRating:        content.AdRating,
		EffortRating:    content.EffortRating,
		EnjoymentRating: content.EnjoymentRating,
		OfferAmount:     content.OfferAmount,
		Comment:         content.Comment,
		CreatedAt:       models.FormatTimestamp(s.now()),
	}

	if err := s.reviewWriter.Save(ctx, review); err != nil {
		logger.Log.Errorw("failed to save review", "trackID", item.TrackID, "author", author, "error", err)
		return nil, err
	}

	s.publishReview(ctx, review)

	return &models.ReviewCreated{ID: review.ID, CreatedAt: review.CreatedAt}, nil
}

// ListByItem returns the reviews of an item, newest first. Unknown items yield an empty list.
func (s *ReviewService) ListByItem(ctx context.Context, trackID int64) ([]models.Review, error) {
	reviews, err := s.reviewReader.ListByTrackID(ctx, trackID)
	if err != nil {
		logger.Log.Errorw("failed to list reviews", "trackID", trackID, "error", err)
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// GetItem returns the cached metadata of a reviewed item.
func (s *ReviewService) GetItem(ctx context.Context, trackID int64) (*models.CatalogItem, error) {
	item, err := s.catalogReader.GetByTrackID(ctx, trackID)
	if err != nil {
		logger.Log.Errorw("failed to get catalog item", "trackID", trackID, "error", err)
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// publishReview publishes a review event to Kafka. Failures are logged only.
func (s *ReviewService) publishReview(ctx context.Context, review models.ReviewDB) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "review_id", review.ID)
		return
	}

	data, err := json.Marshal(models.ReviewEvent{
		ReviewID:      review.ID,
		TrackID:       review.GameTrackID,
		AuthorID:      review.AuthorID,
		OverallRating: review.OverallRating,
		Timestamp:     s.now().Unix(),
	})
	if err != nil {
		logger.Log.Errorw("Failed to marshal review event", "review_id", review.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(review.ID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish review event", "review_id", review.ID, "error", err)
	} else {
		logger.Log.Infow("Review event published", "review_id", review.ID, "trackID", review.GameTrackID)
	}
}
