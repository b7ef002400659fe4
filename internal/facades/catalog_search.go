package facades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-app-reviews/internal/logger"
	"github.com/sbilibin2017/gw-app-reviews/internal/models"
	"github.com/sony/gobreaker/v2"
)

// ErrUpstreamUnavailable is returned for any failure of the upstream catalog search.
var ErrUpstreamUnavailable = errors.New("catalog search unavailable")

// DefaultBaseURL is the public iTunes Search API.
const DefaultBaseURL = "https://itunes.apple.com"

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// itunesResult is a single entry of the iTunes search response.
type itunesResult struct {
	TrackID           *int64   `json:"trackId"`
	TrackName         *string  `json:"trackName"`
	TrackCensoredName *string  `json:"trackCensoredName"`
	Description       *string  `json:"description"`
	ArtworkURL100     *string  `json:"artworkUrl100"`
	ArtworkURL512     *string  `json:"artworkUrl512"`
	ArtworkURL60      *string  `json:"artworkUrl60"`
	AverageUserRating *float64 `json:"averageUserRating"`
}

type itunesResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

// CatalogSearchFacade queries the upstream catalog over HTTP.
// It neither retries nor caches; an open circuit fails fast.
type CatalogSearchFacade struct {
	client  HTTPDoer
	baseURL string
	breaker *gobreaker.CircuitBreaker[[]models.CatalogItem]
}

// NewCatalogSearchFacade creates a facade. A nil client gets an *http.Client
// bounded by timeout.
func NewCatalogSearchFacade(client HTTPDoer, baseURL string, timeout time.Duration) *CatalogSearchFacade {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	settings := gobreaker.Settings{
		Name:        "catalog-search",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warnw("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &CatalogSearchFacade{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		breaker: gobreaker.NewCircuitBreaker[[]models.CatalogItem](settings),
	}
}

// Search returns the software entries matching term, mapped to catalog items.
func (f *CatalogSearchFacade) Search(ctx context.Context, term string) ([]models.CatalogItem, error) {
	items, err := f.breaker.Execute(func() ([]models.CatalogItem, error) {
		return f.search(ctx, term)
	})
	if err != nil {
		logger.Log.Errorw("catalog search failed", "term", term, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return items, nil
}

func (f *CatalogSearchFacade) search(ctx context.Context, term string) ([]models.CatalogItem, error) {
	query := url.Values{}
	query.Set("term", term)
	query.Set("entity", "software")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/search?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var body itunesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(body.Results))
	for _, r := range body.Results {
		items = append(items, toCatalogItem(r))
	}

	logger.Log.Infow("catalog search", "term", term, "result", len(items))
	return items, nil
}

func toCatalogItem(r itunesResult) models.CatalogItem {
	item := models.CatalogItem{
		TrackID:     r.TrackID,
		Name:        r.TrackName,
		Title:       r.TrackCensoredName,
		Description: r.Description,
		Rating:      r.AverageUserRating,
		Images:      []string{deref(r.ArtworkURL100), deref(r.ArtworkURL512), deref(r.ArtworkURL60)},
	}
	if item.Title == nil {
		item.Title = r.TrackName
	}
	return item
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
