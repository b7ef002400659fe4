package handlers

//go:generate mockgen -source=review.go -destination=review_mock_test.go -package=handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/middlewares"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
	"github.com/sbilibin2017/gw-app-reviews/internal/services"
)

// ReviewCreator stores a review together with the reviewed item.
type ReviewCreator interface {
	Create(ctx context.Context, author string, item models.ItemRef, content models.ReviewContent) (*models.ReviewCreated, error)
}

// ReviewLister lists the reviews of an item.
type ReviewLister interface {
	ListByItem(ctx context.Context, trackID int64) ([]models.Review, error)
}

// ItemGetter reads cached item metadata.
type ItemGetter interface {
	GetItem(ctx context.Context, trackID int64) (*models.CatalogItem, error)
}

// CreateReviewRequest carries the reviewed item and the review itself.
// swagger:model CreateReviewRequest
type CreateReviewRequest struct {
	// Catalog track id
	// required: true
	TrackID     int64    `json:"game_trackId" validate:"required"`
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Rating      *float64 `json:"rating"`

	OverallRating   *float64 `json:"overall_rating" validate:"required"`
	ValueRating     *float64 `json:"value_rating" validate:"required"`
	AdRating        *float64 `json:"ad_rating" validate:"required"`
	EffortRating    *float64 `json:"effort_rating" validate:"required"`
	EnjoymentRating *float64 `json:"enjoyment_rating" validate:"required"`
	OfferAmount     *float64 `json:"offer_amount" validate:"required"`
	Comment         string   `json:"comment"`
}

func (req CreateReviewRequest) itemRef() models.ItemRef {
	return models.ItemRef{
		TrackID:     req.TrackID,
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Rating:      req.Rating,
	}
}

func (req CreateReviewRequest) content() models.ReviewContent {
	return models.ReviewContent{
		OverallRating:   *req.OverallRating,
		ValueRating:     *req.ValueRating,
		AdRating:        *req.AdRating,
		EffortRating:    *req.EffortRating,
		EnjoymentRating: *req.EnjoymentRating,
		OfferAmount:     *req.OfferAmount,
		Comment:         req.Comment,
	}
}

// NewCreateReviewHandler returns an HTTP handler that submits a review.
// The author is the subject of the bearer token.
// @Summary Submit a review
// @Description Caches the item metadata on first sight and stores the review attributed to the caller.
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body handlers.CreateReviewRequest true "Review with item metadata"
// @Success 200 {object} models.ReviewCreated
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /reviews [post]
// @Security BearerAuth
func NewCreateReviewHandler(svc ReviewCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		author, ok := middlewares.GetSubjectFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		var req CreateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationDetail(err))
			return
		}

		created, err := svc.Create(r.Context(), author, req.itemRef(), req.content())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, created)
	}
}

// NewListReviewsHandler returns an HTTP handler listing the reviews of an item.
// @Summary List reviews of an item
// @Description Newest first. Unknown items give an empty list.
// @Tags reviews
// @Produce json
// @Param trackId path int true "Catalog track id"
// @Success 200 {array} models.Review
// @Failure 400 {object} handlers.ErrorResponse "Invalid track id"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /reviews/{trackId} [get]
func NewListReviewsHandler(svc ReviewLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID, ok := parseTrackID(w, r)
		if !ok {
			return
		}

		reviews, err := svc.ListByItem(r.Context(), trackID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, reviews)
	}
}

// NewGetItemHandler returns an HTTP handler reading cached item metadata.
// @Summary Get a cached item
// @Tags catalog
// @Produce json
// @Param trackId path int true "Catalog track id"
// @Success 200 {object} models.CatalogItem
// @Failure 400 {object} handlers.ErrorResponse "Invalid track id"
// @Failure 404 {object} handlers.ErrorResponse "Item not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /items/{trackId} [get]
func NewGetItemHandler(svc ItemGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID, ok := parseTrackID(w, r)
		if !ok {
			return
		}

		item, err := svc.GetItem(r.Context(), trackID)
		if err != nil {
			if errors.Is(err, services.ErrItemNotFound) {
				writeError(w, http.StatusNotFound, "Item not found")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func parseTrackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	trackID, err := strconv.ParseInt(chi.URLParam(r, "trackId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid track id")
		return 0, false
	}
	return trackID, true
}
