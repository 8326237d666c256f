package pricing

// Package pricing computes line-item prices from a size selection, a
// quantity, and the size's volume-discount tiers.

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidDimensions = errors.New("invalid dimensions")
)

// Orders above this quantity get the flat bulk rate regardless of tiers.
const BulkQuantityThreshold = 10000

var (
	bulkRateMultiplier = decimal.NewFromFloat(0.1)
	squareFootInches   = decimal.NewFromInt(144)
)

// Dimensions are the requested width and height in inches for a
// custom-size order.
type Dimensions struct {
	Width  decimal.Decimal
	Height decimal.Decimal
}

func (d Dimensions) valid() bool {
	return d.Width.IsPositive() && d.Height.IsPositive()
}

// AreaSquareFeet converts the inch dimensions to square feet. There is no
// minimum-area floor: a 1"x1" custom sticker prices at its literal area.
func (d Dimensions) AreaSquareFeet() decimal.Decimal {
	return d.Width.Mul(d.Height).Div(squareFootInches)
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// UnitPrice resolves the effective per-unit rate for a quantity, in
// priority order: the bulk override above BulkQuantityThreshold, then an
// exact tier breakpoint match, then the size's own rate. Tiers are
// matched by exact equality because they represent discrete package
// sizes offered to the buyer, not greater-or-equal breakpoints.
func (e *Engine) UnitPrice(size *models.Size, quantity int, tiers []models.QuantityTier) (decimal.Decimal, error) {
	if err := validateQuantity(size, quantity); err != nil {
		return decimal.Zero, err
	}

	if quantity > BulkQuantityThreshold {
		return size.PricePerUnit.Mul(bulkRateMultiplier), nil
	}

	for _, tier := range tiers {
		if tier.Quantity == quantity {
			return tier.PricePerUnit, nil
		}
	}

	return size.PricePerUnit, nil
}

// Total computes the charged amount for a selection. Fixed sizes charge
// unit price times quantity and reject dimensions. Custom sizes treat the
// resolved unit price as a rate per square foot and require positive
// width and height.
func (e *Engine) Total(size *models.Size, quantity int, tiers []models.QuantityTier, dims *Dimensions) (decimal.Decimal, error) {
	unit, err := e.UnitPrice(size, quantity, tiers)
	if err != nil {
		return decimal.Zero, err
	}

	if !size.IsCustom {
		if dims != nil {
			return decimal.Zero, fmt.Errorf("%w: size %q is not custom but dimensions were supplied", ErrInvalidDimensions, size.Name)
		}
		return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
	}

	if dims == nil || !dims.valid() {
		return decimal.Zero, fmt.Errorf("%w: custom size %q requires positive width and height", ErrInvalidDimensions, size.Name)
	}

	return unit.Mul(dims.AreaSquareFeet()).Mul(decimal.NewFromInt(int64(quantity))), nil
}

func validateQuantity(size *models.Size, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidQuantity, quantity)
	}
	if size.MinQuantity > 0 && quantity < size.MinQuantity {
		return fmt.Errorf("%w: quantity %d is below the minimum of %d for size %q", ErrInvalidQuantity, quantity, size.MinQuantity, size.Name)
	}
	if size.MaxQuantity > 0 && quantity > size.MaxQuantity {
		return fmt.Errorf("%w: quantity %d exceeds the maximum of %d for size %q", ErrInvalidQuantity, quantity, size.MaxQuantity, size.Name)
	}
	return nil
}
