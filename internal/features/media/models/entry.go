package models

import (
	"time"
)

// MediaEntry represents a single tracked media item
type MediaEntry struct {
	ID          string     `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	URL         *string    `json:"url"`
	Rating      *int       `json:"rating"`
	Tags        []string   `json:"tags,omitempty"`
	CategoryID  *string    `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Denormalized from the referenced category on reads
	CategoryName  *string `json:"category_name,omitempty"`
	CategoryColor *string `json:"category_color,omitempty"`
}

// EntryInput represents the data needed to create or update an entry.
// A zero rating is the input-layer sentinel for "clear rating" and is
// normalized to absent before it reaches the store.
type EntryInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Rating      int      `json:"rating" validate:"gte=0,lte=5"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
}

// NormalizedRating maps the zero sentinel to absent
func (in *EntryInput) NormalizedRating() *int {
	if in.Rating == 0 {
		return nil
	}
	r := in.Rating
	return &r
}
