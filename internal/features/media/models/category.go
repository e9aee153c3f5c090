package models

import (
	"time"
)

// Category represents a user-defined category for organizing media entries
type Category struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	// EntryCount is derived by the store, not owned by the category
	EntryCount int `json:"entry_count"`
}

// CategoryInput represents the data needed to create or update a category
type CategoryInput struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// DefaultCategoryColor is used when no color is supplied
const DefaultCategoryColor = "#3B82F6"
