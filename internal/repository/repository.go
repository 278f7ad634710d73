package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/salamchy/furniture/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Page     int
	PerPage  int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// GetProductOfTheWeek returns the currently featured product.
	GetProductOfTheWeek(ctx context.Context) (*domain.ProductOfTheWeek, error)

	// SetProductOfTheWeek points the featured slot at the given product.
	SetProductOfTheWeek(ctx context.Context, productID string) error
}

// PostRepository defines the interface for blog post persistence operations.
type PostRepository interface {
	// Create inserts a new post into the store.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns all posts, newest first.
	List(ctx context.Context) ([]domain.Post, error)

	// Update modifies an existing post in the store.
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// BannerRepository defines the interface for carousel banner persistence
// operations.
type BannerRepository interface {
	// Create inserts a new banner, enforcing the carousel slot cap.
	Create(ctx context.Context, banner *domain.Banner) error

	// GetByID retrieves a banner by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Banner, error)

	// List returns banners, oldest first. When activeOnly is set, inactive
	// banners are excluded.
	List(ctx context.Context, activeOnly bool) ([]domain.Banner, error)

	// Delete removes a banner from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// CartRepository mirrors a cart to a durable slot keyed by the anonymous
// cart ID.
type CartRepository interface {
	// Load reads the slot. An absent, unparsable, or unreachable slot
	// yields an empty cart; Load never fails the caller.
	Load(ctx context.Context, cartID string) *domain.Cart

	// Save overwrites the slot with the full cart.
	Save(ctx context.Context, cartID string, cart *domain.Cart) error

	// Clear removes the slot entirely.
	Clear(ctx context.Context, cartID string) error
}
