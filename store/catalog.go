package store

import (
	"LiquorStore/models"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Uncategorized names the group for products whose category is null or blank.
const Uncategorized = "uncategorized"

type CategoryGroup struct {
	Name      string           `json:"name"`
	BannerURL string           `json:"banner_url,omitempty"`
	Products  []models.Product `json:"products"`
}

type Catalog struct {
	db    *gorm.DB
	cache *catalogCache
}

// NewCatalog returns a catalog reader; rdb may be nil to disable caching.
func NewCatalog(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *Catalog {
	return &Catalog{db: db, cache: newCatalogCache(rdb, cacheTTL)}
}

// ListProducts returns the storefront listing ordered by category. Products
// without any variant cannot be bought and are left out.
func (s *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.cache.load(ctx, keyCatalogProducts, &products) {
		return products, nil
	}

	err := s.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM product_variants WHERE product_variants.product_id = products.id)").
		Order("category ASC").
		Order("name ASC").
		Order("id ASC").
		Find(&products).
		Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}

	s.cache.store(ctx, keyCatalogProducts, products)
	return products, nil
}

// ListCategoryBanners maps lowercased category names to banner URLs. A failed
// read is logged and yields an empty map: banners are decoration only.
func (s *Catalog) ListCategoryBanners(ctx context.Context) map[string]string {
	banners := map[string]string{}
	if s.cache.load(ctx, keyCatalogBanners, &banners) {
		return banners
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		zap.L().Error("load category banners", zap.Error(err))
		return map[string]string{}
	}
	for _, c := range categories {
		if c.BannerURL != nil && *c.BannerURL != "" {
			banners[models.CategoryKey(c.Name)] = *c.BannerURL
		}
	}

	s.cache.store(ctx, keyCatalogBanners, banners)
	return banners
}

func (s *Catalog) GetProductByID(ctx context.Context, id string) (models.Product, []models.ProductVariant, error) {
	var product models.Product
	err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, nil, ErrProductNotFound
		}
		return models.Product{}, nil, fmt.Errorf("get product %s: %w", id, err)
	}

	variants := []models.ProductVariant{}
	err = s.db.WithContext(ctx).
		Where("product_id = ?", id).
		Order("volume_ml ASC").
		Find(&variants).
		Error
	if err != nil {
		return models.Product{}, nil, fmt.Errorf("list variants of %s: %w", id, err)
	}
	return product, variants, nil
}

// GroupByCategory keeps the order in which categories are first seen and the
// input order of products inside each category.
func GroupByCategory(products []models.Product) []CategoryGroup {
	groups := []CategoryGroup{}
	index := map[string]int{}
	for _, p := range products {
		name := strings.TrimSpace(p.CategoryName())
		if name == "" {
			name = Uncategorized
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

func ApplyBanners(groups []CategoryGroup, banners map[string]string) {
	for i := range groups {
		groups[i].BannerURL = banners[models.CategoryKey(groups[i].Name)]
	}
}
