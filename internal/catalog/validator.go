package catalog

import (
	"fmt"
	"strings"
)

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(seed *SeedFile) error {
	if err := v.validateShop(&seed.Shop); err != nil {
		return fmt.Errorf("shop validation failed: %w", err)
	}

	if len(seed.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	categories := make(map[string]bool)
	for i, category := range seed.Categories {
		if strings.TrimSpace(category.Name) == "" {
			return fmt.Errorf("category %d: name is required", i)
		}
		if categories[category.Name] {
			return fmt.Errorf("duplicate category: %s", category.Name)
		}
		categories[category.Name] = true
	}

	materials := make(map[string]bool)
	for i, material := range seed.Materials {
		if strings.TrimSpace(material.Name) == "" {
			return fmt.Errorf("material %d: name is required", i)
		}
		if materials[material.Name] {
			return fmt.Errorf("duplicate material: %s", material.Name)
		}
		materials[material.Name] = true
	}

	names := make(map[string]bool)
	for i, product := range seed.Products {
		if err := v.validateProduct(&product, categories, materials); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		if names[product.Name] {
			return fmt.Errorf("duplicate product: %s", product.Name)
		}
		names[product.Name] = true
	}

	return nil
}

func (v *Validator) validateShop(shop *ShopConfig) error {
	if strings.TrimSpace(shop.Name) == "" {
		return fmt.Errorf("shop name is required")
	}

	if shop.Currency != "usd" {
		return fmt.Errorf("only USD currency is supported")
	}

	return nil
}

func (v *Validator) validateProduct(product *ProductConfig, categories, materials map[string]bool) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if product.BasePrice.IsNegative() {
		return fmt.Errorf("base price must be zero or positive")
	}

	if product.Category != "" && !categories[product.Category] {
		return fmt.Errorf("unknown category: %s", product.Category)
	}
	if product.Material != "" && !materials[product.Material] {
		return fmt.Errorf("unknown material: %s", product.Material)
	}

	if len(product.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}

	sizeNames := make(map[string]bool)
	for i, size := range product.Sizes {
		if err := v.validateSize(&size); err != nil {
			return fmt.Errorf("size %d: %w", i, err)
		}
		if sizeNames[size.Name] {
			return fmt.Errorf("duplicate size: %s", size.Name)
		}
		sizeNames[size.Name] = true
	}

	return nil
}

func (v *Validator) validateSize(size *SizeConfig) error {
	if strings.TrimSpace(size.Name) == "" {
		return fmt.Errorf("size name is required")
	}

	if !size.PricePerUnit.IsPositive() {
		return fmt.Errorf("price per unit must be positive")
	}

	if size.IsCustom {
		if size.Width != nil || size.Height != nil {
			return fmt.Errorf("custom sizes must not carry fixed dimensions")
		}
	} else {
		if size.Width == nil || size.Height == nil {
			return fmt.Errorf("fixed sizes require width and height")
		}
		if !size.Width.IsPositive() || !size.Height.IsPositive() {
			return fmt.Errorf("width and height must be positive")
		}
	}

	if size.MinQuantity < 0 || size.MaxQuantity < 0 {
		return fmt.Errorf("quantity bounds must be zero or positive")
	}
	if size.MinQuantity > 0 && size.MaxQuantity > 0 && size.MaxQuantity < size.MinQuantity {
		return fmt.Errorf("max quantity %d is below min quantity %d", size.MaxQuantity, size.MinQuantity)
	}

	breakpoints := make(map[int]bool)
	for i, tier := range size.Tiers {
		if tier.Quantity <= 0 {
			return fmt.Errorf("tier %d: quantity breakpoint must be positive", i)
		}
		if !tier.PricePerUnit.IsPositive() {
			return fmt.Errorf("tier %d: price per unit must be positive", i)
		}
		if breakpoints[tier.Quantity] {
			return fmt.Errorf("duplicate tier breakpoint: %d", tier.Quantity)
		}
		breakpoints[tier.Quantity] = true
	}

	return nil
}
