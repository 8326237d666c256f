package catalog

// Package catalog provides catalog seed file parsing and validation.

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type SeedFile struct {
	Shop       ShopConfig       `yaml:"shop"`
	Categories []CategoryConfig `yaml:"categories"`
	Materials  []MaterialConfig `yaml:"materials"`
	Products   []ProductConfig  `yaml:"products"`
}

type ShopConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

type CategoryConfig struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type MaterialConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ProductConfig struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	BasePrice   decimal.Decimal `yaml:"base_price"`
	Category    string          `yaml:"category"`
	Material    string          `yaml:"material"`
	Active      bool            `yaml:"active"`
	Sizes       []SizeConfig    `yaml:"sizes"`
}

type SizeConfig struct {
	Name         string           `yaml:"name"`
	Width        *decimal.Decimal `yaml:"width"`
	Height       *decimal.Decimal `yaml:"height"`
	PricePerUnit decimal.Decimal  `yaml:"price_per_unit"`
	IsCustom     bool             `yaml:"is_custom"`
	MinQuantity  int              `yaml:"min_quantity"`
	MaxQuantity  int              `yaml:"max_quantity"`
	Tiers        []TierConfig     `yaml:"tiers"`
}

type TierConfig struct {
	Quantity           int              `yaml:"quantity"`
	PricePerUnit       decimal.Decimal  `yaml:"price_per_unit"`
	DiscountPercentage *decimal.Decimal `yaml:"discount_percentage"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &seed, nil
}

func (p *Parser) ParseFile(path string) (*SeedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return p.Parse(content)
}
