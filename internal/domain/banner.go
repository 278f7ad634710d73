package domain

import "time"

// MaxBanners is the hard cap on homepage carousel slots.
const MaxBanners = 5

// Banner represents one homepage carousel slot.
type Banner struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ImageURL      string    `json:"image_url"`
	ImagePublicID string    `json:"-"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}
