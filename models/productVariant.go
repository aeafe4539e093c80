package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a purchasable size/price option of a product.
type ProductVariant struct {
	ID            string              `gorm:"primaryKey;size:36" json:"id"`
	ProductID     string              `gorm:"size:36;not null;index" json:"product_id"`
	VolumeML      int                 `gorm:"column:volume_ml;not null" json:"volume_ml"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"column:original_price;type:decimal(10,2)" json:"original_price"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time           `json:"created_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// Size renders the volume as stored on the old cart rows, e.g. "750ml".
func (v *ProductVariant) Size() string {
	if v.VolumeML <= 0 {
		return ""
	}
	return fmt.Sprintf("%dml", v.VolumeML)
}

// Label renders the volume the way the storefront shows it: "750 ML", "1.5 L".
func (v *ProductVariant) Label() string {
	if v.VolumeML >= 1000 {
		return decimal.New(int64(v.VolumeML), -3).String() + " L"
	}
	return fmt.Sprintf("%d ML", v.VolumeML)
}
