package handlers

//go:generate mockgen -source=search.go -destination=search_mock_test.go -package=handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-app-reviews/internal/facades"
	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
)

// Searcher queries the upstream catalog.
type Searcher interface {
	Search(ctx context.Context, term string) ([]models.CatalogItem, error)
}

type searchQuery struct {
	Q string `validate:"required,min=1"`
}

// NewSearchHandler returns an HTTP handler that proxies catalog search.
// @Summary Search the catalog
// @Description Looks up software entries in the upstream catalog. Results are not stored.
// @Tags catalog
// @Produce json
// @Param q query string true "Search term" minlength(1)
// @Success 200 {array} models.CatalogItem
// @Failure 400 {object} handlers.ErrorResponse "Missing search term"
// @Failure 502 {object} handlers.ErrorResponse "Upstream catalog unavailable"
// @Router /search [get]
func NewSearchHandler(svc Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := searchQuery{Q: r.URL.Query().Get("q")}
		if err := validate.Struct(query); err != nil {
			writeError(w, http.StatusBadRequest, validationDetail(err))
			return
		}

		items, err := svc.Search(r.Context(), query.Q)
		if err != nil {
			if errors.Is(err, facades.ErrUpstreamUnavailable) {
				logger.Log.Warnw("catalog search failed", "q", query.Q, "error", err)
				writeError(w, http.StatusBadGateway, "Catalog search unavailable")
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}
