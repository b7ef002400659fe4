package models

import "strings"

// imagesSeparator joins image URLs in the single images column.
const imagesSeparator = ","

// CatalogItem is an entry of the upstream app catalog as exposed to clients.
// swagger:model CatalogItem
type CatalogItem struct {
	TrackID     *int64   `json:"trackId"`     // External catalog identifier, null when upstream omits it
	Name        *string  `json:"name"`        // Display name
	Title       *string  `json:"title"`       // Censored title, falls back to name
	Description *string  `json:"description"` // Long description
	Images      []string `json:"images"`      // Artwork URLs in upstream order
	Rating      *float64 `json:"rating"`      // Average user rating, if known
}

// ItemRef carries the catalog metadata submitted together with a review.
type ItemRef struct {
	TrackID     int64
	Name        string
	Title       string
	Description string
	Images      []string
	Rating      *float64
}

// CatalogItemDB represents a row of the games table.
type CatalogItemDB struct {
	TrackID     int64    `db:"track_id"`
	Name        *string  `db:"name"`
	Title       *string  `db:"title"`
	Description *string  `db:"description"`
	Images      *string  `db:"images"`
	Rating      *float64 `db:"rating"`
}

// NewCatalogItemDB converts a submitted item reference into its row form.
func NewCatalogItemDB(ref ItemRef) CatalogItemDB {
	images := JoinImages(ref.Images)
	return CatalogItemDB{
		TrackID:     ref.TrackID,
		Name:        &ref.Name,
		Title:       &ref.Title,
		Description: &ref.Description,
		Images:      &images,
		Rating:      ref.Rating,
	}
}

// CatalogItem converts the row back into the client shape.
func (c CatalogItemDB) CatalogItem() CatalogItem {
	trackID := c.TrackID
	item := CatalogItem{
		TrackID:     &trackID,
		Name:        c.Name,
		Title:       c.Title,
		Description: c.Description,
		Rating:      c.Rating,
		Images:      []string{},
	}
	if c.Images != nil {
		item.Images = SplitImages(*c.Images)
	}
	return item
}

// JoinImages encodes an ordered list of image URLs into the stored form.
func JoinImages(images []string) string {
	return strings.Join(images, imagesSeparator)
}

// SplitImages decodes the stored images column. An empty column yields an empty list.
func SplitImages(images string) []string {
	if images == "" {
		return []string{}
	}
	return strings.Split(images, imagesSeparator)
}
