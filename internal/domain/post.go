package domain

import "time"

// Post represents a blog post. Body text is stored as ordered paragraphs.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Paragraphs    []string  `json:"paragraphs"`
	ImageURL      string    `json:"image_url"`
	ImagePublicID string    `json:"-"`
	PublishedAt   time.Time `json:"published_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
