package store

import (
	"LiquorStore/events"
	"LiquorStore/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductInput struct {
	Name              string  `json:"name" binding:"required"`
	Brand             string  `json:"brand"`
	Category          string  `json:"category" binding:"required"`
	Description       string  `json:"description"`
	ImageURL          string  `json:"image_url"`
	AlcoholPercentage float64 `json:"alcohol_percentage"`
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if in.AlcoholPercentage < 0 || in.AlcoholPercentage > 100 {
		return fmt.Errorf("%w: alcohol_percentage must be within 0..100", ErrInvalidInput)
	}
	return nil
}

type VariantInput struct {
	VolumeML      int                 `json:"volume_ml"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	StockQuantity int                 `json:"stock_quantity"`
}

func (in VariantInput) Validate() error {
	if in.VolumeML <= 0 {
		return fmt.Errorf("%w: volume_ml must be positive", ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if in.OriginalPrice.Valid && in.OriginalPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: original_price must not be negative", ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock_quantity must not be negative", ErrInvalidInput)
	}
	return nil
}

func (in VariantInput) variant(productID string) models.ProductVariant {
	return models.ProductVariant{
		ProductID:     productID,
		VolumeML:      in.VolumeML,
		Price:         in.Price.Round(2),
		OriginalPrice: in.OriginalPrice,
		StockQuantity: in.StockQuantity,
	}
}

// Admin holds the catalog write operations. Every successful write drops the
// cached catalog so the storefront sees it on the next read.
type Admin struct {
	db     *gorm.DB
	cache  *catalogCache
	events events.Publisher
}

func NewAdmin(db *gorm.DB, rdb *redis.Client, pub events.Publisher) *Admin {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Admin{db: db, cache: newCatalogCache(rdb, 0), events: pub}
}

// CreateProduct inserts a product with its first variant in one transaction.
// The variant's price, volume and stock are copied onto the product row.
func (s *Admin) CreateProduct(ctx context.Context, createdBy string, in ProductInput, v VariantInput) (models.Product, models.ProductVariant, error) {
	if err := in.Validate(); err != nil {
		return models.Product{}, models.ProductVariant{}, err
	}
	if err := v.Validate(); err != nil {
		return models.Product{}, models.ProductVariant{}, err
	}

	category := strings.TrimSpace(in.Category)
	product := models.Product{
		Name:              strings.TrimSpace(in.Name),
		Brand:             strings.TrimSpace(in.Brand),
		Category:          &category,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		AlcoholPercentage: in.AlcoholPercentage,
		Price:             v.Price.Round(2),
		OriginalPrice:     v.OriginalPrice,
		VolumeML:          v.VolumeML,
		StockQuantity:     v.StockQuantity,
	}
	var variant models.ProductVariant

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		variant = v.variant(product.ID)
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("create variant: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Product{}, models.ProductVariant{}, err
	}

	s.cache.invalidate(ctx, keyCatalogProducts)
	publish(ctx, s.events, events.TopicProductCreated, product.ID, events.ProductCreatedPayload{
		ProductID: product.ID,
		VariantID: variant.ID,
		Name:      product.Name,
		Category:  category,
		Admin:     createdBy,
	})
	return product, variant, nil
}

// AddVariant attaches another size to an existing product.
func (s *Admin) AddVariant(ctx context.Context, productID string, v VariantInput) (models.ProductVariant, error) {
	if err := v.Validate(); err != nil {
		return models.ProductVariant{}, err
	}

	variant := v.variant(productID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("find product: %w", err)
		}
		if err := tx.Create(&variant).Error; err != nil {
			return fmt.Errorf("create product variant: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.ProductVariant{}, err
	}

	s.cache.invalidate(ctx, keyCatalogProducts)
	return variant, nil
}

// UpsertCategory creates the category or replaces its banner.
func (s *Admin) UpsertCategory(ctx context.Context, name string, bannerURL *string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	category := models.Category{Name: name, BannerURL: bannerURL}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"banner_url"}),
		}).
		Create(&category).
		Error
	if err != nil {
		return models.Category{}, fmt.Errorf("upsert category: %w", err)
	}

	s.cache.invalidate(ctx, keyCatalogBanners)
	return category, nil
}

// ListProductsWithVariants loads the whole catalog, variantless products
// included, for administrative use.
func (s *Admin) ListProductsWithVariants(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("volume_ml ASC")
		}).
		Order("category ASC").
		Order("name ASC").
		Find(&products).
		Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
