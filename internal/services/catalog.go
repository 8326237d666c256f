package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/stickerlabapp/stickerlab/internal/cache"
	"github.com/stickerlabapp/stickerlab/internal/catalog"
	"github.com/stickerlabapp/stickerlab/internal/logging"
	"github.com/stickerlabapp/stickerlab/internal/models"
)

const catalogCacheTTL = 5 * time.Minute

type catalogStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]*models.Product, error)
	CreateSize(ctx context.Context, size *models.Size) error
	UpdateSize(ctx context.Context, size *models.Size) error
	DeleteSize(ctx context.Context, sizeID uuid.UUID) error
	GetSize(ctx context.Context, sizeID uuid.UUID) (*models.Size, error)
	CreateTier(ctx context.Context, tier *models.QuantityTier) error
	DeleteTier(ctx context.Context, tierID uuid.UUID) error
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateMaterial(ctx context.Context, material *models.Material) error
	DeleteMaterial(ctx context.Context, materialID uuid.UUID) error
	ListMaterials(ctx context.Context) ([]models.Material, error)
	CountProducts(ctx context.Context) (int, error)
}

type seedParser interface {
	ParseFile(path string) (*catalog.SeedFile, error)
}

type seedValidator interface {
	Validate(seed *catalog.SeedFile) error
}

// CatalogService serves catalog reads through the cache and keeps the
// cache coherent across admin writes.
type CatalogService struct {
	store     catalogStore
	cache     cache.Provider
	parser    seedParser
	validator seedValidator
	logger    *slog.Logger
}

func NewCatalogService(store catalogStore, cacheProvider cache.Provider, parser seedParser, validator seedValidator, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:     store,
		cache:     cacheProvider,
		parser:    parser,
		validator: validator,
		logger:    logger,
	}
}

func (s *CatalogService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// ListProducts returns the active catalog, served from cache when warm.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	span := sentry.StartSpan(
		ctx,
		"service.catalog.list_products",
		sentry.WithOpName("service.catalog"),
		sentry.WithDescription("ListProducts"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	var products []*models.Product
	if s.cacheGet(ctx, cache.ProductListKey(), &products) {
		return products, nil
	}

	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.ProductListKey(), products)
	return products, nil
}

// GetProduct returns one product with its sizes and tiers.
func (s *CatalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	if s.cacheGet(ctx, cache.ProductKey(productID.String()), &product) {
		return &product, nil
	}

	loaded, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.ProductKey(productID.String()), loaded)
	return loaded, nil
}

func (s *CatalogService) GetSize(ctx context.Context, sizeID uuid.UUID) (*models.Size, error) {
	return s.store.GetSize(ctx, sizeID)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) ListMaterials(ctx context.Context) ([]models.Material, error) {
	return s.store.ListMaterials(ctx)
}

// Admin writes. Every write invalidates the listing; product-scoped
// writes also invalidate that product.

func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}

func (s *CatalogService) CreateSize(ctx context.Context, size *models.Size) error {
	if err := s.store.CreateSize(ctx, size); err != nil {
		return err
	}
	s.invalidate(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) UpdateSize(ctx context.Context, size *models.Size) error {
	if err := s.store.UpdateSize(ctx, size); err != nil {
		return err
	}
	s.invalidate(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) DeleteSize(ctx context.Context, sizeID uuid.UUID) error {
	size, err := s.store.GetSize(ctx, sizeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSize(ctx, sizeID); err != nil {
		return err
	}
	s.invalidate(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) CreateTier(ctx context.Context, tier *models.QuantityTier) error {
	size, err := s.store.GetSize(ctx, tier.SizeID)
	if err != nil {
		return err
	}
	if err := s.store.CreateTier(ctx, tier); err != nil {
		return err
	}
	s.invalidate(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) DeleteTier(ctx context.Context, sizeID, tierID uuid.UUID) error {
	size, err := s.store.GetSize(ctx, sizeID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTier(ctx, tierID); err != nil {
		return err
	}
	s.invalidate(ctx, size.ProductID)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.store.CreateCategory(ctx, category)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.store.DeleteCategory(ctx, categoryID)
}

func (s *CatalogService) CreateMaterial(ctx context.Context, material *models.Material) error {
	return s.store.CreateMaterial(ctx, material)
}

func (s *CatalogService) DeleteMaterial(ctx context.Context, materialID uuid.UUID) error {
	return s.store.DeleteMaterial(ctx, materialID)
}

// SeedFromFile imports the YAML catalog into an empty database. A
// non-empty catalog makes it a no-op so repeated startups never duplicate
// rows.
func (s *CatalogService) SeedFromFile(ctx context.Context, path string) error {
	logger := s.loggerFromContext(ctx)

	count, err := s.store.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Debug("catalog already seeded", "products", count)
		return nil
	}

	seed, err := s.parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if err := s.validator.Validate(seed); err != nil {
		return fmt.Errorf("invalid catalog file: %w", err)
	}

	categoryIDs := make(map[string]uuid.UUID, len(seed.Categories))
	for _, c := range seed.Categories {
		category := models.Category{Name: c.Name, Slug: c.Slug}
		if err := s.store.CreateCategory(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
		categoryIDs[c.Name] = category.ID
	}

	materialIDs := make(map[string]uuid.UUID, len(seed.Materials))
	for _, m := range seed.Materials {
		material := models.Material{Name: m.Name, Description: m.Description}
		if err := s.store.CreateMaterial(ctx, &material); err != nil {
			return fmt.Errorf("failed to seed material %q: %w", m.Name, err)
		}
		materialIDs[m.Name] = material.ID
	}

	for _, p := range seed.Products {
		product := models.Product{
			Name:        p.Name,
			Description: p.Description,
			BasePrice:   p.BasePrice,
			CategoryID:  categoryIDs[p.Category],
			MaterialID:  materialIDs[p.Material],
			Active:      p.Active,
		}
		if err := s.store.CreateProduct(ctx, &product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}

		for order, sz := range p.Sizes {
			size := models.Size{
				ProductID:    product.ID,
				Name:         sz.Name,
				Width:        sz.Width,
				Height:       sz.Height,
				PricePerUnit: sz.PricePerUnit,
				IsCustom:     sz.IsCustom,
				MinQuantity:  sz.MinQuantity,
				MaxQuantity:  sz.MaxQuantity,
				Active:       true,
				DisplayOrder: order,
			}
			if err := s.store.CreateSize(ctx, &size); err != nil {
				return fmt.Errorf("failed to seed size %q of %q: %w", sz.Name, p.Name, err)
			}

			for tierOrder, t := range sz.Tiers {
				tier := models.QuantityTier{
					SizeID:             size.ID,
					Quantity:           t.Quantity,
					PricePerUnit:       t.PricePerUnit,
					DiscountPercentage: t.DiscountPercentage,
					DisplayOrder:       tierOrder,
				}
				if err := s.store.CreateTier(ctx, &tier); err != nil {
					return fmt.Errorf("failed to seed tier %d of %q: %w", t.Quantity, sz.Name, err)
				}
			}
		}
	}

	logger.Info("catalog seeded",
		"shop", seed.Shop.Name,
		"categories", len(seed.Categories),
		"materials", len(seed.Materials),
		"products", len(seed.Products),
	)
	return nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.loggerFromContext(ctx).Warn("cache read failed", "error", err, "key", key)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.loggerFromContext(ctx).Warn("cache payload corrupt", "error", err, "key", key)
		return false
	}
	return true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), catalogCacheTTL); err != nil {
		s.loggerFromContext(ctx).Warn("cache write failed", "error", err, "key", key)
	}
}

func (s *CatalogService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}

	for _, key := range []string{cache.ProductListKey(), cache.ProductKey(productID.String())} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.loggerFromContext(ctx).Warn("cache invalidation failed", "error", err, "key", key)
		}
	}
}
