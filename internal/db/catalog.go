package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

type CatalogStore struct {
	pool *pgxpool.Pool
}

func NewCatalogStore(pool *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// Products

const productColumns = `
	id, name, description, base_price::text, category_id, material_id,
	active, created_at, updated_at
`

func (s *CatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, base_price, category_id, material_id, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`,
		product.Name,
		product.Description,
		product.BasePrice.String(),
		uuidParam(product.CategoryID),
		uuidParam(product.MaterialID),
		product.Active,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *CatalogStore) UpdateProduct(ctx context.Context, product *models.Product) error {
	cmdTag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, base_price = $3, category_id = $4,
		    material_id = $5, active = $6, updated_at = NOW()
		WHERE id = $7
	`,
		product.Name,
		product.Description,
		product.BasePrice.String(),
		uuidParam(product.CategoryID),
		uuidParam(product.MaterialID),
		product.Active,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, productID)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}

	sizes, err := s.ListSizes(ctx, productID)
	if err != nil {
		return nil, err
	}
	product.Sizes = sizes
	return product, nil
}

func (s *CatalogStore) ListProducts(ctx context.Context, activeOnly bool) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	if activeOnly {
		query = `SELECT ` + productColumns + ` FROM products WHERE active ORDER BY name`
	}

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// Sizes

const sizeColumns = `
	id, product_id, name, width::text, height::text, price_per_unit::text,
	is_custom, COALESCE(min_quantity, 0), COALESCE(max_quantity, 0),
	active, display_order
`

func (s *CatalogStore) CreateSize(ctx context.Context, size *models.Size) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sizes (product_id, name, width, height, price_per_unit,
		                   is_custom, min_quantity, max_quantity, active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, 0), NULLIF($8, 0), $9, $10)
		RETURNING id
	`,
		size.ProductID,
		size.Name,
		decimalPtrParam(size.Width),
		decimalPtrParam(size.Height),
		size.PricePerUnit.String(),
		size.IsCustom,
		size.MinQuantity,
		size.MaxQuantity,
		size.Active,
		size.DisplayOrder,
	).Scan(&size.ID)
	if err != nil {
		return fmt.Errorf("failed to create size: %w", err)
	}
	return nil
}

func (s *CatalogStore) UpdateSize(ctx context.Context, size *models.Size) error {
	cmdTag, err := s.pool.Exec(ctx, `
		UPDATE sizes
		SET name = $1, width = $2, height = $3, price_per_unit = $4,
		    is_custom = $5, min_quantity = NULLIF($6, 0), max_quantity = NULLIF($7, 0),
		    active = $8, display_order = $9
		WHERE id = $10
	`,
		size.Name,
		decimalPtrParam(size.Width),
		decimalPtrParam(size.Height),
		size.PricePerUnit.String(),
		size.IsCustom,
		size.MinQuantity,
		size.MaxQuantity,
		size.Active,
		size.DisplayOrder,
		size.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) DeleteSize(ctx context.Context, sizeID uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM sizes WHERE id = $1`, sizeID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetSize returns the size together with its quantity tiers, which is the
// exact shape the pricing engine consumes.
func (s *CatalogStore) GetSize(ctx context.Context, sizeID uuid.UUID) (*models.Size, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+sizeColumns+` FROM sizes WHERE id = $1`, sizeID)
	size, err := scanSize(row)
	if err != nil {
		return nil, err
	}

	tiers, err := s.ListTiers(ctx, sizeID)
	if err != nil {
		return nil, err
	}
	size.Tiers = tiers
	return size, nil
}

func (s *CatalogStore) ListSizes(ctx context.Context, productID uuid.UUID) ([]models.Size, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+sizeColumns+` FROM sizes WHERE product_id = $1 ORDER BY display_order, name`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []models.Size
	for rows.Next() {
		size, err := scanSize(rows)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, *size)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sizes {
		tiers, err := s.ListTiers(ctx, sizes[i].ID)
		if err != nil {
			return nil, err
		}
		sizes[i].Tiers = tiers
	}
	return sizes, nil
}

// Quantity tiers

func (s *CatalogStore) CreateTier(ctx context.Context, tier *models.QuantityTier) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quantity_tiers (size_id, quantity, price_per_unit, discount_percentage, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		tier.SizeID,
		tier.Quantity,
		tier.PricePerUnit.String(),
		decimalPtrParam(tier.DiscountPercentage),
		tier.DisplayOrder,
	).Scan(&tier.ID)
	if err != nil {
		return fmt.Errorf("failed to create quantity tier: %w", err)
	}
	return nil
}

func (s *CatalogStore) DeleteTier(ctx context.Context, tierID uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM quantity_tiers WHERE id = $1`, tierID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) ListTiers(ctx context.Context, sizeID uuid.UUID) ([]models.QuantityTier, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, size_id, quantity, price_per_unit::text, discount_percentage::text, display_order
		FROM quantity_tiers
		WHERE size_id = $1
		ORDER BY quantity
	`, sizeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []models.QuantityTier
	for rows.Next() {
		var (
			tier     models.QuantityTier
			price    string
			discount *string
		)
		if err := rows.Scan(&tier.ID, &tier.SizeID, &tier.Quantity, &price, &discount, &tier.DisplayOrder); err != nil {
			return nil, err
		}
		if tier.PricePerUnit, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid tier price: %w", err)
		}
		if tier.DiscountPercentage, err = decimalFromPtr(discount); err != nil {
			return nil, fmt.Errorf("invalid tier discount: %w", err)
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}

// Categories and materials

func (s *CatalogStore) CreateCategory(ctx context.Context, category *models.Category) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, created_at
	`, category.Name, category.Slug).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *CatalogStore) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *CatalogStore) CreateMaterial(ctx context.Context, material *models.Material) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO materials (name, description) VALUES ($1, $2) RETURNING id, created_at
	`, material.Name, material.Description).Scan(&material.ID, &material.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create material: %w", err)
	}
	return nil
}

func (s *CatalogStore) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, materialID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CatalogStore) ListMaterials(ctx context.Context) ([]models.Material, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, created_at FROM materials ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []models.Material
	for rows.Next() {
		var material models.Material
		if err := rows.Scan(&material.ID, &material.Name, &material.Description, &material.CreatedAt); err != nil {
			return nil, err
		}
		materials = append(materials, material)
	}
	return materials, rows.Err()
}

// CountProducts reports how many products exist; the seeder uses it to
// decide whether the catalog needs importing.
func (s *CatalogStore) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var (
		product    models.Product
		basePrice  string
		categoryID *uuid.UUID
		materialID *uuid.UUID
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&basePrice,
		&categoryID,
		&materialID,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if product.BasePrice, err = decimal.NewFromString(basePrice); err != nil {
		return nil, fmt.Errorf("invalid base price: %w", err)
	}
	if categoryID != nil {
		product.CategoryID = *categoryID
	}
	if materialID != nil {
		product.MaterialID = *materialID
	}
	return &product, nil
}

func scanSize(row pgx.Row) (*models.Size, error) {
	var (
		size   models.Size
		width  *string
		height *string
		price  string
	)

	err := row.Scan(
		&size.ID,
		&size.ProductID,
		&size.Name,
		&width,
		&height,
		&price,
		&size.IsCustom,
		&size.MinQuantity,
		&size.MaxQuantity,
		&size.Active,
		&size.DisplayOrder,
	)
	if err != nil {
		return nil, err
	}

	if size.Width, err = decimalFromPtr(width); err != nil {
		return nil, fmt.Errorf("invalid size width: %w", err)
	}
	if size.Height, err = decimalFromPtr(height); err != nil {
		return nil, fmt.Errorf("invalid size height: %w", err)
	}
	if size.PricePerUnit, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid size price: %w", err)
	}
	return &size, nil
}

func uuidParam(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
