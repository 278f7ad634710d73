package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories.
const (
	CategoryLamp  = "lamp"
	CategoryTable = "table"
	CategoryChair = "chair"
	CategoryPot   = "pot"
)

// ValidCategories returns the set of valid product categories.
func ValidCategories() []string {
	return []string{CategoryLamp, CategoryTable, CategoryChair, CategoryPot}
}

// IsValidCategory checks whether the given string is a valid product category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// Product represents a furniture product in the catalog.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	// ImagePublicID identifies the image on the external host for deletion.
	ImagePublicID string    `json:"-"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Snapshot returns the denormalized product data a cart line item captures
// at add time.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.ImageURL,
		Category:  p.Category,
		Stock:     p.Stock,
	}
}

// ProductOfTheWeek is the single featured catalog slot shown on the
// homepage.
type ProductOfTheWeek struct {
	Product   Product   `json:"product"`
	SetAt     time.Time `json:"set_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
