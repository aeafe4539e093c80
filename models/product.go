package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Price, OriginalPrice, VolumeML and StockQuantity
// mirror the product's initial variant so listings don't need a join.
type Product struct {
	ID                string              `gorm:"primaryKey;size:36" json:"id"`
	Name              string              `gorm:"size:255;not null" json:"name"`
	Brand             string              `gorm:"size:255" json:"brand"`
	Category          *string             `gorm:"size:100;index" json:"category"`
	Description       string              `gorm:"type:text" json:"description"`
	ImageURL          string              `gorm:"column:image_url;size:1024" json:"image_url"`
	AlcoholPercentage float64             `gorm:"column:alcohol_percentage" json:"alcohol_percentage"`
	Price             decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice     decimal.NullDecimal `gorm:"column:original_price;type:decimal(10,2)" json:"original_price"`
	VolumeML          int                 `gorm:"column:volume_ml" json:"volume_ml"`
	Rating            float64             `gorm:"default:0" json:"rating"`
	ReviewsCount      int                 `gorm:"column:reviews_count;default:0" json:"reviews_count"`
	StockQuantity     int                 `gorm:"column:stock_quantity;default:0" json:"stock_quantity"`
	Variants          []ProductVariant    `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CategoryName returns the category or "" when it is null.
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}

// HasDiscount reports whether the original price is above the selling price.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice.Valid && p.OriginalPrice.Decimal.GreaterThan(p.Price)
}

// CategoryKey normalizes a category name the way banners are keyed.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
