package store

import (
	"LiquorStore/config"
	"LiquorStore/models"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProduct inserts a product with one variant per volume, all priced the same.
func seedProduct(t *testing.T, db *gorm.DB, name string, category *string, unit string, stock int, volumes ...int) (models.Product, []models.ProductVariant) {
	t.Helper()
	p := models.Product{Name: name, Category: category, Price: price(unit), StockQuantity: stock}
	if len(volumes) > 0 {
		p.VolumeML = volumes[0]
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	variants := make([]models.ProductVariant, 0, len(volumes))
	for _, ml := range volumes {
		v := models.ProductVariant{ProductID: p.ID, VolumeML: ml, Price: price(unit), StockQuantity: stock}
		if err := db.Create(&v).Error; err != nil {
			t.Fatalf("seed variant: %v", err)
		}
		variants = append(variants, v)
	}
	return p, variants
}

func strPtr(s string) *string { return &s }

var ctx = context.Background()
