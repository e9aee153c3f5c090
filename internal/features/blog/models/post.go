package models

import "time"

// BlogPost represents a blog post. Unpublished posts are only visible
// through the management endpoints.
type BlogPost struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostInput represents the data needed to create or update a post
type PostInput struct {
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Content   string `json:"content" validate:"required"`
	Excerpt   string `json:"excerpt"`
	Published bool   `json:"published"`
}
