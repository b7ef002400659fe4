package handlers

//go:generate mockgen -source=admin.go -destination=admin_mock_test.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

// Eraser wipes every stored record.
type Eraser interface {
	EraseAll(ctx context.Context) error
}

// StatsGetter reports record counts.
type StatsGetter interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// StatusResponse acknowledges an administrative action.
// swagger:model StatusResponse
type StatusResponse struct {
	// default: all records erased
	Status string `json:"status"`
}

// NewEraseAllHandler returns an HTTP handler deleting all users, items and reviews.
// @Summary Erase all records
// @Description Administrators only.
// @Tags admin
// @Produce json
// @Success 200 {object} handlers.StatusResponse
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /erase_all [post]
// @Security BearerAuth
func NewEraseAllHandler(svc Eraser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.EraseAll(r.Context()); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, StatusResponse{Status: "all records erased"})
	}
}

// NewStatsHandler returns an HTTP handler reporting stored record counts.
// @Summary Record counts
// @Description Administrators only.
// @Tags admin
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 401 {object} handlers.ErrorResponse "Invalid credentials"
// @Failure 403 {object} handlers.ErrorResponse "Not enough permissions"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /stats [get]
// @Security BearerAuth
func NewStatsHandler(svc StatsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
