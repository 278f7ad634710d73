package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/pkg/database"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

// BannerRepository implements repository.BannerRepository using PostgreSQL.
type BannerRepository struct {
	pool database.DBTX
}

// NewBannerRepository creates a new PostgreSQL-backed banner repository.
func NewBannerRepository(pool database.DBTX) *BannerRepository {
	return &BannerRepository{pool: pool}
}

// Create inserts a new banner. The insert is guarded against the carousel
// slot cap in a single statement, so concurrent creates cannot overshoot it.
func (r *BannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	query := `
		INSERT INTO banners (id, title, image_url, image_public_id, active, created_at)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE (SELECT count(*) FROM banners) < $7`

	ct, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		b.ImageURL,
		b.ImagePublicID,
		b.Active,
		b.CreatedAt,
		domain.MaxBanners,
	)
	if err != nil {
		return fmt.Errorf("insert banner: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.LimitReached(fmt.Sprintf("carousel already has %d banners", domain.MaxBanners))
	}

	return nil
}

// GetByID retrieves a banner by its ID.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	query := `
		SELECT id, title, image_url, image_public_id, active, created_at
		FROM banners
		WHERE id = $1`

	var b domain.Banner
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.Title,
		&b.ImageURL,
		&b.ImagePublicID,
		&b.Active,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan banner: %w", err)
	}

	return &b, nil
}

// List returns banners in carousel order (oldest first).
func (r *BannerRepository) List(ctx context.Context, activeOnly bool) ([]domain.Banner, error) {
	query := `
		SELECT id, title, image_url, image_public_id, active, created_at
		FROM banners
		ORDER BY created_at ASC`
	if activeOnly {
		query = `
		SELECT id, title, image_url, image_public_id, active, created_at
		FROM banners
		WHERE active = true
		ORDER BY created_at ASC`
	}

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.ImageURL,
			&b.ImagePublicID,
			&b.Active,
			&b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan banner row: %w", err)
		}
		banners = append(banners, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate banner rows: %w", err)
	}

	if banners == nil {
		banners = []domain.Banner{}
	}

	return banners, nil
}

// Delete removes a banner from the database by its ID.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM banners WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("banner", id)
	}

	return nil
}
