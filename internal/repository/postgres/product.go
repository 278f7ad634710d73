package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salamchy/furniture/internal/domain"
	"github.com/salamchy/furniture/internal/repository"
	"github.com/salamchy/furniture/pkg/database"
	apperrors "github.com/salamchy/furniture/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (id, name, category, price, description, image_url, image_public_id, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.ImageURL,
		p.ImagePublicID,
		p.Stock,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, name, category, price, description, image_url, image_public_id, stock, created_at, updated_at
		FROM products
		WHERE id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Category,
		&p.Price,
		&p.Description,
		&p.ImageURL,
		&p.ImagePublicID,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

// List returns products matching the filter along with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() yields the total count in the same query.
	query := fmt.Sprintf(`
		SELECT id, name, category, price, description, image_url, image_public_id, stock, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 12
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Category,
			&p.Price,
			&p.Description,
			&p.ImageURL,
			&p.ImagePublicID,
			&p.Stock,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE products
		SET name = $1, category = $2, price = $3, description = $4,
		    image_url = $5, image_public_id = $6, stock = $7, updated_at = $8
		WHERE id = $9`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Category,
		p.Price,
		p.Description,
		p.ImageURL,
		p.ImagePublicID,
		p.Stock,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database by its ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// GetProductOfTheWeek returns the currently featured product.
func (r *ProductRepository) GetProductOfTheWeek(ctx context.Context) (*domain.ProductOfTheWeek, error) {
	query := `
		SELECT p.id, p.name, p.category, p.price, p.description, p.image_url, p.image_public_id, p.stock, p.created_at, p.updated_at,
		       w.set_at, w.updated_at
		FROM product_of_the_week w
		JOIN products p ON p.id = w.product_id`

	var potw domain.ProductOfTheWeek
	err := r.pool.QueryRow(ctx, query).Scan(
		&potw.Product.ID,
		&potw.Product.Name,
		&potw.Product.Category,
		&potw.Product.Price,
		&potw.Product.Description,
		&potw.Product.ImageURL,
		&potw.Product.ImagePublicID,
		&potw.Product.Stock,
		&potw.Product.CreatedAt,
		&potw.Product.UpdatedAt,
		&potw.SetAt,
		&potw.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product of the week: %w", err)
	}

	return &potw, nil
}

// SetProductOfTheWeek points the singleton featured slot at the given
// product, creating the slot on first use.
func (r *ProductRepository) SetProductOfTheWeek(ctx context.Context, productID string) error {
	now := time.Now().UTC()

	query := `
		INSERT INTO product_of_the_week (id, product_id, set_at, updated_at)
		VALUES (1, $1, $2, $2)
		ON CONFLICT (id) DO UPDATE SET product_id = $1, updated_at = $2`

	_, err := r.pool.Exec(ctx, query, productID, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", productID)
		}
		return fmt.Errorf("set product of the week: %w", err)
	}

	return nil
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
