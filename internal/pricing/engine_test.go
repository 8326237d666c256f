package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stickerlabapp/stickerlab/internal/models"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func fixedSize(pricePerUnit string) *models.Size {
	return &models.Size{
		Name:         `3" x 3"`,
		PricePerUnit: dec(pricePerUnit),
		Active:       true,
	}
}

func customSize(ratePerSqFt string) *models.Size {
	return &models.Size{
		Name:         "Custom",
		PricePerUnit: dec(ratePerSqFt),
		IsCustom:     true,
		Active:       true,
	}
}

func TestEngine_UnitPrice(t *testing.T) {
	t.Parallel()

	tiers := []models.QuantityTier{
		{Quantity: 500, PricePerUnit: dec("0.07")},
		{Quantity: 100, PricePerUnit: dec("0.09")},
		{Quantity: 250, PricePerUnit: dec("0.08")},
	}

	tests := []struct {
		name     string
		size     *models.Size
		quantity int
		tiers    []models.QuantityTier
		want     string
		wantErr  error
	}{
		{
			name:     "exact tier match",
			size:     fixedSize("0.10"),
			quantity: 250,
			tiers:    tiers,
			want:     "0.08",
		},
		{
			name:     "tier match ignores storage order",
			size:     fixedSize("0.10"),
			quantity: 100,
			tiers:    tiers,
			want:     "0.09",
		},
		{
			name:     "one unit off a breakpoint gets no discount",
			size:     fixedSize("0.10"),
			quantity: 249,
			tiers:    tiers,
			want:     "0.10",
		},
		{
			name:     "no tiers falls back to size rate",
			size:     fixedSize("0.10"),
			quantity: 42,
			want:     "0.10",
		},
		{
			name:     "bulk override above threshold",
			size:     fixedSize("0.10"),
			quantity: 15000,
			want:     "0.01",
		},
		{
			name:     "bulk override dominates a matching tier",
			size:     fixedSize("0.10"),
			quantity: 20000,
			tiers:    []models.QuantityTier{{Quantity: 20000, PricePerUnit: dec("0.05")}},
			want:     "0.01",
		},
		{
			name:     "threshold itself still matches tiers",
			size:     fixedSize("0.10"),
			quantity: 10000,
			tiers:    []models.QuantityTier{{Quantity: 10000, PricePerUnit: dec("0.05")}},
			want:     "0.05",
		},
		{
			name:     "zero quantity rejected",
			size:     fixedSize("0.10"),
			quantity: 0,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name:     "negative quantity rejected",
			size:     fixedSize("0.10"),
			quantity: -5,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name: "below configured minimum rejected",
			size: &models.Size{
				Name:         `2" x 2"`,
				PricePerUnit: dec("0.10"),
				MinQuantity:  50,
			},
			quantity: 10,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name: "above configured maximum rejected",
			size: &models.Size{
				Name:         `2" x 2"`,
				PricePerUnit: dec("0.10"),
				MaxQuantity:  1000,
			},
			quantity: 1001,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name: "inside configured bounds accepted",
			size: &models.Size{
				Name:         `2" x 2"`,
				PricePerUnit: dec("0.10"),
				MinQuantity:  50,
				MaxQuantity:  1000,
			},
			quantity: 50,
			want:     "0.10",
		},
	}

	engine := NewEngine()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := engine.UnitPrice(tt.size, tt.quantity, tt.tiers)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(dec(tt.want)) {
				t.Fatalf("unit price = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEngine_Total_FixedSize(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	tiers := []models.QuantityTier{{Quantity: 250, PricePerUnit: dec("0.08")}}
	total, err := engine.Total(fixedSize("0.10"), 250, tiers, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(dec("20.00")) {
		t.Fatalf("total = %s, want 20.00", total)
	}

	total, err = engine.Total(fixedSize("0.10"), 15000, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(dec("150.00")) {
		t.Fatalf("bulk total = %s, want 150.00", total)
	}
}

func TestEngine_Total_CustomSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     string
		width    string
		height   string
		quantity int
		want     string
	}{
		{
			name:     "half square foot",
			rate:     "5.00",
			width:    "12",
			height:   "6",
			quantity: 10,
			want:     "25.00",
		},
		{
			name:     "full square foot",
			rate:     "5.00",
			width:    "12",
			height:   "12",
			quantity: 3,
			want:     "15.00",
		},
		{
			name:     "area below one square foot gets no minimum floor",
			rate:     "5.00",
			width:    "6",
			height:   "6",
			quantity: 1,
			want:     "1.25",
		},
	}

	engine := NewEngine()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dims := &Dimensions{Width: dec(tt.width), Height: dec(tt.height)}
			total, err := engine.Total(customSize(tt.rate), tt.quantity, nil, dims)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !total.Equal(dec(tt.want)) {
				t.Fatalf("total = %s, want %s", total, tt.want)
			}
		})
	}
}

func TestEngine_Total_DimensionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size *models.Size
		dims *Dimensions
	}{
		{
			name: "custom size without dimensions",
			size: customSize("5.00"),
		},
		{
			name: "custom size with zero width",
			size: customSize("5.00"),
			dims: &Dimensions{Width: decimal.Zero, Height: dec("6")},
		},
		{
			name: "custom size with negative height",
			size: customSize("5.00"),
			dims: &Dimensions{Width: dec("6"), Height: dec("-1")},
		},
		{
			name: "fixed size with dimensions",
			size: fixedSize("0.10"),
			dims: &Dimensions{Width: dec("3"), Height: dec("3")},
		},
	}

	engine := NewEngine()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := engine.Total(tt.size, 10, nil, tt.dims)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("expected ErrInvalidDimensions, got %v", err)
			}
		})
	}
}

func TestEngine_CustomSize_BulkOverrideAppliesToAreaRate(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	// 5.00/sqft drops to 0.50/sqft above the bulk threshold; one square
	// foot per piece keeps the arithmetic visible.
	dims := &Dimensions{Width: dec("12"), Height: dec("12")}
	total, err := engine.Total(customSize("5.00"), 20000, nil, dims)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !total.Equal(dec("10000.00")) {
		t.Fatalf("total = %s, want 10000.00", total)
	}
}
