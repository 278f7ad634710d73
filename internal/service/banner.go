package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/media"
	"github.com/salamchy/furniture/internal/repository"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

// BannerService implements the business logic for homepage carousel
// banners.
type BannerService struct {
	repo    repository.BannerRepository
	storage media.Storage
	logger  *slog.Logger
}

// NewBannerService creates a new banner service.
func NewBannerService(repo repository.BannerRepository, storage media.Storage, logger *slog.Logger) *BannerService {
	return &BannerService{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// CreateBannerInput holds the parameters for creating a banner.
type CreateBannerInput struct {
	Title string
	Image *ImageUpload
}

// Create uploads the banner image and inserts the banner. The carousel
// holds at most domain.MaxBanners slots; creation beyond the cap fails.
func (s *BannerService) Create(ctx context.Context, input CreateBannerInput) (*domain.Banner, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Image == nil {
		return nil, apperrors.InvalidInput("image is required")
	}

	upload, err := s.storage.Upload(ctx, input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("upload banner image: %w", err)
	}

	banner := &domain.Banner{
		ID:            uuid.NewString(),
		Title:         input.Title,
		ImageURL:      upload.URL,
		ImagePublicID: upload.PublicID,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, banner); err != nil {
		s.deleteImage(ctx, upload.PublicID)
		if errors.Is(err, apperrors.ErrLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("create banner: %w", err)
	}

	return banner, nil
}

// List returns banners in carousel order.
func (s *BannerService) List(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	banners, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

// Delete removes a banner and its hosted image, freeing a carousel slot.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	banner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("banner", id)
		}
		return fmt.Errorf("get banner: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}

	s.deleteImage(ctx, banner.ImagePublicID)
	return nil
}

func (s *BannerService) deleteImage(ctx context.Context, publicID string) {
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
