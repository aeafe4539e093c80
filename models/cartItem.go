package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItem struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	SessionID        string         `gorm:"size:64;not null;index" json:"session_id"`
	ProductID        string         `gorm:"size:36;not null" json:"product_id"`
	Product          Product        `gorm:"foreignKey:ProductID" json:"product"`
	ProductVariantID string         `gorm:"column:product_variant_id;size:36;not null" json:"product_variant_id"`
	ProductVariant   ProductVariant `gorm:"foreignKey:ProductVariantID" json:"product_variant"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// LineTotal is the variant price times the quantity.
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.ProductVariant.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
