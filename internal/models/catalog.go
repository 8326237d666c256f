package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type Material struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CategoryID  uuid.UUID       `json:"category_id"`
	MaterialID  uuid.UUID       `json:"material_id"`
	Active      bool            `json:"active"`
	Sizes       []Size          `json:"sizes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Size is a purchasable variant of a product. A custom size carries no
// fixed dimensions and its PricePerUnit is a rate per square foot rather
// than a per-piece price.
type Size struct {
	ID           uuid.UUID        `json:"id"`
	ProductID    uuid.UUID        `json:"product_id"`
	Name         string           `json:"name"`
	Width        *decimal.Decimal `json:"width,omitempty"`
	Height       *decimal.Decimal `json:"height,omitempty"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
	IsCustom     bool             `json:"is_custom"`
	MinQuantity  int              `json:"min_quantity,omitempty"`
	MaxQuantity  int              `json:"max_quantity,omitempty"`
	Active       bool             `json:"active"`
	DisplayOrder int              `json:"display_order"`
	Tiers        []QuantityTier   `json:"tiers,omitempty"`
}

// QuantityTier is a discrete package size offered to the buyer: ordering
// exactly Quantity units gets the tier's per-unit price.
type QuantityTier struct {
	ID                 uuid.UUID        `json:"id"`
	SizeID             uuid.UUID        `json:"size_id"`
	Quantity           int              `json:"quantity"`
	PricePerUnit       decimal.Decimal  `json:"price_per_unit"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	DisplayOrder       int              `json:"display_order"`
}
