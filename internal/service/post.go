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

// PostService implements the business logic for blog posts.
type PostService struct {
	repo    repository.PostRepository
	storage media.Storage
	logger  *slog.Logger
}

// NewPostService creates a new blog post service.
func NewPostService(repo repository.PostRepository, storage media.Storage, logger *slog.Logger) *PostService {
	return &PostService{
		repo:    repo,
		storage: storage,
		logger:  logger,
	}
}

// CreatePostInput holds the parameters for creating a post.
type CreatePostInput struct {
	Title      string
	Paragraphs []string
	Image      *ImageUpload
}

// UpdatePostInput holds the parameters for updating a post. Nil fields are
// left unchanged.
type UpdatePostInput struct {
	Title      *string
	Paragraphs []string
	Image      *ImageUpload
}

// Create uploads the cover image and inserts the post.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if len(input.Paragraphs) == 0 {
		return nil, apperrors.InvalidInput("at least one paragraph is required")
	}
	if input.Image == nil {
		return nil, apperrors.InvalidInput("image is required")
	}

	upload, err := s.storage.Upload(ctx, input.Image.Filename, input.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("upload post image: %w", err)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Paragraphs:    input.Paragraphs,
		ImageURL:      upload.URL,
		ImagePublicID: upload.PublicID,
		PublishedAt:   now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.deleteImage(ctx, upload.PublicID)
		return nil, fmt.Errorf("create post: %w", err)
	}

	return post, nil
}

// GetByID retrieves a post by ID.
func (s *PostService) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("post", id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Update patches a post. When a new image is supplied the old one is
// removed from the host after the row is updated.
func (s *PostService) Update(ctx context.Context, id string, input UpdatePostInput) (*domain.Post, error) {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		post.Title = *input.Title
	}
	if input.Paragraphs != nil {
		if len(input.Paragraphs) == 0 {
			return nil, apperrors.InvalidInput("at least one paragraph is required")
		}
		post.Paragraphs = input.Paragraphs
	}

	oldImageID := ""
	if input.Image != nil {
		upload, err := s.storage.Upload(ctx, input.Image.Filename, input.Image.Content)
		if err != nil {
			return nil, fmt.Errorf("upload post image: %w", err)
		}
		oldImageID = post.ImagePublicID
		post.ImageURL = upload.URL
		post.ImagePublicID = upload.PublicID
	}

	if err := s.repo.Update(ctx, post); err != nil {
		if input.Image != nil {
			s.deleteImage(ctx, post.ImagePublicID)
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	if oldImageID != "" {
		s.deleteImage(ctx, oldImageID)
	}

	return post, nil
}

// Delete removes a post and its hosted image.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.deleteImage(ctx, post.ImagePublicID)
	return nil
}

func (s *PostService) deleteImage(ctx context.Context, publicID string) {
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
