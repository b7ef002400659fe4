package models

import "time"

// TimestampLayout is the fixed-width UTC ISO-8601 layout used for stored timestamps.
// Fixed width keeps lexical order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ReviewContent holds the rating part of a review submission.
type ReviewContent struct {
	OverallRating   float64
	ValueRating     float64
	AdRating        float64
	EffortRating    float64
	EnjoymentRating float64
	OfferAmount     float64
	Comment         string
}

// ReviewDB represents a row of the user_reviews table.
type ReviewDB struct {
	ID              string  `db:"id"`
	AuthorID        string  `db:"author_id"`
	GameTrackID     int64   `db:"game_track_id"`
	OverallRating   float64 `db:"overall_rating"`
	ValueRating     float64 `db:"value_rating"`
	AdRating        float64 `db:"ad_rating"`
	EffortRating    float64 `db:"effort_rating"`
	EnjoymentRating float64 `db:"enjoyment_rating"`
	OfferAmount     float64 `db:"offer_amount"`
	Comment         string  `db:"comment"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       *string `db:"updated_at"`
}

// Review is the public projection of a stored review. It omits id and author.
// swagger:model Review
type Review struct {
	OverallRating   float64 `json:"overall_rating" db:"overall_rating"`
	ValueRating     float64 `json:"value_rating" db:"value_rating"`
	AdRating        float64 `json:"ad_rating" db:"ad_rating"`
	EffortRating    float64 `json:"effort_rating" db:"effort_rating"`
	EnjoymentRating float64 `json:"enjoyment_rating" db:"enjoyment_rating"`
	OfferAmount     float64 `json:"offer_amount" db:"offer_amount"`
	Comment         string  `json:"comment" db:"comment"`
	CreatedAt       string  `json:"created_at" db:"created_at"`
}

// ReviewCreated is returned after a review has been stored.
// swagger:model ReviewCreated
type ReviewCreated struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// ReviewEvent is published after a review has been stored.
type ReviewEvent struct {
	ReviewID      string  `json:"review_id"`
	TrackID       int64   `json:"track_id"`
	AuthorID      string  `json:"author_id"`
	OverallRating float64 `json:"overall_rating"`
	Timestamp     int64   `json:"timestamp"`
}

// FormatTimestamp renders t in TimestampLayout after converting it to UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
