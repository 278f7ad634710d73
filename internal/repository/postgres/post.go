package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/pkg/database"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

// PostRepository implements repository.PostRepository using PostgreSQL.
type PostRepository struct {
	pool database.DBTX
}

// NewPostRepository creates a new PostgreSQL-backed blog post repository.
func NewPostRepository(pool database.DBTX) *PostRepository {
	return &PostRepository{pool: pool}
}

// Create inserts a new post into the database.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	query := `
		INSERT INTO posts (id, title, paragraphs, image_url, image_public_id, published_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Paragraphs,
		p.ImageURL,
		p.ImagePublicID,
		p.PublishedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := `
		SELECT id, title, paragraphs, image_url, image_public_id, published_at, updated_at
		FROM posts
		WHERE id = $1`

	var p domain.Post
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Paragraphs,
		&p.ImageURL,
		&p.ImagePublicID,
		&p.PublishedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return &p, nil
}

// List returns all posts, newest first.
func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := `
		SELECT id, title, paragraphs, image_url, image_public_id, published_at, updated_at
		FROM posts
		ORDER BY published_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Paragraphs,
			&p.ImageURL,
			&p.ImagePublicID,
			&p.PublishedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate post rows: %w", err)
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	return posts, nil
}

// Update modifies an existing post in the database.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts
		SET title = $1, paragraphs = $2, image_url = $3, image_public_id = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Paragraphs,
		p.ImageURL,
		p.ImagePublicID,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", p.ID)
	}

	return nil
}

// Delete removes a post from the database by its ID.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("post", id)
	}

	return nil
}
