package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validSeed() *SeedFile {
	width := decimal.RequireFromString("3")
	height := decimal.RequireFromString("3")
	return &SeedFile{
		Shop: ShopConfig{Name: "StickerLab", Currency: "usd"},
		Categories: []CategoryConfig{
			{Name: "Die Cut", Slug: "die-cut"},
		},
		Materials: []MaterialConfig{
			{Name: "Vinyl"},
		},
		Products: []ProductConfig{
			{
				Name:      "Die Cut Sticker",
				BasePrice: decimal.RequireFromString("0.50"),
				Category:  "Die Cut",
				Material:  "Vinyl",
				Active:    true,
				Sizes: []SizeConfig{
					{
						Name:         `3" x 3"`,
						Width:        &width,
						Height:       &height,
						PricePerUnit: decimal.RequireFromString("0.10"),
						MinQuantity:  50,
						MaxQuantity:  10000,
						Tiers: []TierConfig{
							{Quantity: 250, PricePerUnit: decimal.RequireFromString("0.08")},
							{Quantity: 500, PricePerUnit: decimal.RequireFromString("0.07")},
						},
					},
					{
						Name:         "Custom",
						IsCustom:     true,
						PricePerUnit: decimal.RequireFromString("5.00"),
					},
				},
			},
		},
	}
}

func TestValidator_ValidSeed(t *testing.T) {
	t.Parallel()

	if err := NewValidator().Validate(validSeed()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_Rejections(t *testing.T) {
	t.Parallel()

	width := decimal.RequireFromString("3")

	tests := []struct {
		name    string
		mutate  func(*SeedFile)
		wantMsg string
	}{
		{
			name:    "missing shop name",
			mutate:  func(s *SeedFile) { s.Shop.Name = " " },
			wantMsg: "shop name is required",
		},
		{
			name:    "unsupported currency",
			mutate:  func(s *SeedFile) { s.Shop.Currency = "eur" },
			wantMsg: "only USD",
		},
		{
			name:    "no products",
			mutate:  func(s *SeedFile) { s.Products = nil },
			wantMsg: "at least one product",
		},
		{
			name:    "unknown category",
			mutate:  func(s *SeedFile) { s.Products[0].Category = "Holographic" },
			wantMsg: "unknown category",
		},
		{
			name:    "unknown material",
			mutate:  func(s *SeedFile) { s.Products[0].Material = "Paper" },
			wantMsg: "unknown material",
		},
		{
			name:    "product without sizes",
			mutate:  func(s *SeedFile) { s.Products[0].Sizes = nil },
			wantMsg: "at least one size",
		},
		{
			name: "custom size with fixed dimensions",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[1].Width = &width
			},
			wantMsg: "custom sizes must not carry fixed dimensions",
		},
		{
			name: "fixed size without dimensions",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[0].Width = nil
			},
			wantMsg: "fixed sizes require width and height",
		},
		{
			name: "max quantity below min",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[0].MinQuantity = 100
				s.Products[0].Sizes[0].MaxQuantity = 50
			},
			wantMsg: "below min quantity",
		},
		{
			name: "duplicate tier breakpoint",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[0].Tiers[1].Quantity = 250
			},
			wantMsg: "duplicate tier breakpoint",
		},
		{
			name: "tier with non-positive price",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[0].Tiers[0].PricePerUnit = decimal.Zero
			},
			wantMsg: "price per unit must be positive",
		},
		{
			name: "duplicate size name",
			mutate: func(s *SeedFile) {
				s.Products[0].Sizes[1].Name = s.Products[0].Sizes[0].Name
			},
			wantMsg: "duplicate size",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seed := validSeed()
			tt.mutate(seed)

			err := NewValidator().Validate(seed)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantMsg)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}
