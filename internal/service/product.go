package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/event"
	"github.com/salamchy/furniture/internal/media"
	"github.com/salamchy/furniture/internal/repository"
	apperrors "github.com/salamchy/furniture/pkg/errors"
	"github.com/salamchy/furniture/pkg/pagination"
)

// ImageUpload carries an uploaded image file from the handler.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo     repository.ProductRepository
	storage  media.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, storage media.Storage, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		storage:  storage,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	Stock       int
	Image       *ImageUpload
}

// UpdateProductInput holds the parameters for updating a product. Nil
// fields are left unchanged.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Description *string
	Stock       *int
	Image       *ImageUpload
}

// Create uploads the product image, inserts the product, and publishes a
// product.created event.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of %v", domain.ValidCategories()))
	}
	if input.Price.IsNegative() {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}
	if input.Image == nil {
		return nil, apperrors.InvalidInput("image is required")
	}

	upload, err := s.storage.Upload(ctx, input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Category:      input.Category,
		Price:         input.Price,
		Description:   input.Description,
		ImageURL:      upload.URL,
		ImagePublicID: upload.PublicID,
		Stock:         input.Stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.deleteImage(ctx, upload.PublicID)
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// GetByID retrieves a product by ID.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns a page of products matching the filter.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) (*pagination.Result[domain.Product], error) {
	if filter.Category != nil && !domain.IsValidCategory(*filter.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of %v", domain.ValidCategories()))
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperrors.InvalidInput("min price must not exceed max price")
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = pagination.DefaultPerPage
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := pagination.NewResult(products, total, pagination.Params{Page: filter.Page, PerPage: filter.PerPage})
	return &result, nil
}

// Update patches a product. When a new image is supplied the old one is
// removed from the host after the row is updated.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		product.Name = *input.Name
	}
	if input.Category != nil {
		if !domain.IsValidCategory(*input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of %v", domain.ValidCategories()))
		}
		product.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperrors.InvalidInput("stock must not be negative")
		}
		product.Stock = *input.Stock
	}

	oldImageID := ""
	if input.Image != nil {
		upload, err := s.storage.Upload(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		oldImageID = product.ImagePublicID
		product.ImageURL = upload.URL
		product.ImagePublicID = upload.PublicID
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if input.Image != nil {
			s.deleteImage(ctx, product.ImagePublicID)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	if oldImageID != "" {
		s.deleteImage(ctx, oldImageID)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// Delete removes a product, its hosted image, and publishes a
// product.deleted event.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if product.ImagePublicID != "" {
		s.deleteImage(ctx, product.ImagePublicID)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// GetProductOfTheWeek returns the currently featured product.
func (s *ProductService) GetProductOfTheWeek(ctx context.Context) (*domain.ProductOfTheWeek, error) {
	potw, err := s.repo.GetProductOfTheWeek(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("product of the week", "current")
		}
		return nil, fmt.Errorf("get product of the week: %w", err)
	}
	return potw, nil
}

// SetProductOfTheWeek points the featured slot at the given product.
func (s *ProductService) SetProductOfTheWeek(ctx context.Context, productID string) (*domain.ProductOfTheWeek, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if err := s.repo.SetProductOfTheWeek(ctx, productID); err != nil {
		return nil, fmt.Errorf("set product of the week: %w", err)
	}

	return s.GetProductOfTheWeek(ctx)
}

// deleteImage removes a hosted image, logging failures. Image cleanup is
// best effort and never fails the catalog operation.
func (s *ProductService) deleteImage(ctx context.Context, publicID string) {
	if publicID == "" {
		return
	}
	if err := s.storage.Delete(ctx, publicID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete hosted image",
			slog.String("public_id", publicID),
			slog.String("error", err.Error()),
		)
	}
}
