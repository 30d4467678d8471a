package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"shopdesk/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product. The document-shaped fields (category,
// tags, features, specifications) are stored as JSONB.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	category, tags, features, specs, err := encodeProductFields(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, product_name, short_description, long_description, image, brand, category, tags, features, specifications, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.ProductName,
		product.ShortDescription,
		product.LongDescription,
		product.Image,
		product.Brand,
		category,
		tags,
		features,
		specs,
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces every mutable field of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	category, tags, features, specs, err := encodeProductFields(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET product_name = $2, short_description = $3, long_description = $4,
		    image = $5, brand = $6, category = $7, tags = $8, features = $9,
		    specifications = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.ProductName,
		product.ShortDescription,
		product.LongDescription,
		product.Image,
		product.Brand,
		category,
		tags,
		features,
		specs,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the catalog
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, product_name, short_description, long_description, image, brand, category, tags, features, specifications, created_at
		FROM products
		WHERE id = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves all products, newest first.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, product_name, short_description, long_description, image, brand, category, tags, features, specifications, created_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var category, tags, features, specs []byte

	err := row.Scan(
		&product.ID,
		&product.ProductName,
		&product.ShortDescription,
		&product.LongDescription,
		&product.Image,
		&product.Brand,
		&category,
		&tags,
		&features,
		&specs,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(category, &product.Category); err != nil {
		return nil, fmt.Errorf("failed to decode category: %w", err)
	}
	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := json.Unmarshal(features, &product.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	if err := json.Unmarshal(specs, &product.Specifications); err != nil {
		return nil, fmt.Errorf("failed to decode specifications: %w", err)
	}

	return product, nil
}

func encodeProductFields(product *domain.Product) (category, tags, features, specs []byte, err error) {
	if category, err = json.Marshal(product.Category); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode category: %w", err)
	}
	if tags, err = json.Marshal(emptyIfNil(product.Tags)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	if features, err = json.Marshal(emptyIfNil(product.Features)); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode features: %w", err)
	}
	if specs, err = json.Marshal(product.Specifications); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode specifications: %w", err)
	}
	return category, tags, features, specs, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
