package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/event"
	"github.com/salamchy/furniture/internal/repository"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

// CartService applies cart commands against the durable slot addressed by
// the anonymous cart ID. Commands load the slot, mutate in memory, and
// mirror the result back; a failed mirror write is logged and ignored, so
// the state returned to the caller stays authoritative for the request.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// AddItemInput holds the product snapshot and quantity for an add. The
// snapshot is supplied by the caller and copied onto the line item; the
// cart never consults the live catalog.
type AddItemInput struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Stock     int
	Quantity  int
}

// Get returns the current cart for the slot. A missing or unreadable slot
// yields an empty cart.
func (s *CartService) Get(ctx context.Context, cartID string) *domain.Cart {
	return s.repo.Load(ctx, cartID)
}

// AddItem merges the product into the cart.
func (s *CartService) AddItem(ctx context.Context, cartID string, input AddItemInput) (*domain.Cart, domain.Outcome, error) {
	if input.ProductID == "" {
		return nil, "", apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 {
		return nil, "", apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.Price.IsNegative() {
		return nil, "", apperrors.InvalidInput("price must not be negative")
	}

	cart := s.repo.Load(ctx, cartID)
	outcome := cart.AddItem(domain.ProductSnapshot{
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		Image:     input.Image,
		Category:  input.Category,
		Stock:     input.Stock,
	}, input.Quantity)

	s.persist(ctx, cartID, cart, outcome)
	return cart, outcome, nil
}

// RemoveItem removes the line item from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, lineItemID string) (*domain.Cart, domain.Outcome) {
	cart := s.repo.Load(ctx, cartID)
	outcome := cart.RemoveItem(lineItemID)

	s.persist(ctx, cartID, cart, outcome)
	return cart, outcome
}

// UpdateQuantity sets the line item's quantity, removing it at zero or
// below and clamping to the stock ceiling.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID, lineItemID string, quantity int) (*domain.Cart, domain.Outcome) {
	cart := s.repo.Load(ctx, cartID)
	outcome := cart.UpdateQuantity(lineItemID, quantity)

	s.persist(ctx, cartID, cart, outcome)
	return cart, outcome
}

// IncrementQuantity raises the line item's quantity by one.
func (s *CartService) IncrementQuantity(ctx context.Context, cartID, lineItemID string) (*domain.Cart, domain.Outcome) {
	cart := s.repo.Load(ctx, cartID)
	outcome := cart.IncrementQuantity(lineItemID)

	s.persist(ctx, cartID, cart, outcome)
	return cart, outcome
}

// DecrementQuantity lowers the line item's quantity by one, removing the
// line item at its last unit.
func (s *CartService) DecrementQuantity(ctx context.Context, cartID, lineItemID string) (*domain.Cart, domain.Outcome) {
	cart := s.repo.Load(ctx, cartID)
	outcome := cart.DecrementQuantity(lineItemID)

	s.persist(ctx, cartID, cart, outcome)
	return cart, outcome
}

// Clear empties the cart and removes the slot entirely rather than
// mirroring an empty list.
func (s *CartService) Clear(ctx context.Context, cartID string) (*domain.Cart, domain.Outcome) {
	cart := s.repo.Load(ctx, cartID)
	outcome := cart.Clear()

	if err := s.repo.Clear(ctx, cartID); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart slot",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, cartID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}

	return cart, outcome
}

// persist mirrors the cart to its slot after a command that changed it and
// publishes cart.updated. Neither failure propagates; the in-memory cart
// remains authoritative for the request.
func (s *CartService) persist(ctx context.Context, cartID string, cart *domain.Cart, outcome domain.Outcome) {
	if !outcome.Changed() {
		return
	}

	if err := s.repo.Save(ctx, cartID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to save cart slot",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartUpdated(ctx, cartID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
	}
}
