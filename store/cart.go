package store

import (
	"LiquorStore/events"
	"LiquorStore/models"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultMaxQuantity = 10

type CartOptions struct {
	// MaxQuantity bounds the quantity of a single cart line.
	MaxQuantity int
	// MergeDuplicates folds a repeated add of the same variant into the
	// existing line instead of creating a second one.
	MergeDuplicates bool
}

// Cart manages the session-scoped cart lines. Every operation takes the
// session id explicitly; a line is never visible to another session.
type Cart struct {
	db     *gorm.DB
	opts   CartOptions
	events events.Publisher
}

func NewCart(db *gorm.DB, opts CartOptions, pub events.Publisher) *Cart {
	if opts.MaxQuantity < 1 {
		opts.MaxQuantity = DefaultMaxQuantity
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Cart{db: db, opts: opts, events: pub}
}

func (s *Cart) MaxQuantity() int {
	return s.opts.MaxQuantity
}

// FetchCart returns the session's lines with product and variant attached,
// oldest first. An unknown session yields an empty, non-nil slice.
func (s *Cart) FetchCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("ProductVariant").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return items, nil
}

func (s *Cart) AddItem(ctx context.Context, sessionID, productID, variantID string, quantity int) (models.CartItem, error) {
	if err := s.checkQuantity(quantity); err != nil {
		return models.CartItem{}, err
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, variant, err := findVariant(tx, productID, variantID)
		if err != nil {
			return err
		}

		if s.opts.MergeDuplicates {
			var existing models.CartItem
			err := tx.Where("session_id = ? AND product_variant_id = ?", sessionID, variantID).
				Order("created_at ASC").
				First(&existing).
				Error
			switch {
			case err == nil:
				total := existing.Quantity + quantity
				if err := s.checkQuantity(total); err != nil {
					return err
				}
				if total > variant.StockQuantity {
					return fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, total, variant.StockQuantity)
				}
				if err := tx.Model(&existing).Update("quantity", total).Error; err != nil {
					return fmt.Errorf("update cart item: %w", err)
				}
				existing.Quantity = total
				item = existing
				item.Product, item.ProductVariant = product, variant
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("find cart item: %w", err)
			}
		}

		if quantity > variant.StockQuantity {
			return fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, quantity, variant.StockQuantity)
		}
		item = models.CartItem{
			SessionID:        sessionID,
			ProductID:        productID,
			ProductVariantID: variantID,
			Quantity:         quantity,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}
		item.Product, item.ProductVariant = product, variant
		return nil
	})
	if err != nil {
		return models.CartItem{}, err
	}

	publish(ctx, s.events, events.TopicCartItemAdded, sessionID, events.CartItemPayload{
		SessionID: sessionID,
		ItemID:    item.ID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  item.Quantity,
	})
	return item, nil
}

func (s *Cart) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	if err := s.checkQuantity(quantity); err != nil {
		return err
	}

	var item models.CartItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("ProductVariant").
			Where("id = ? AND session_id = ?", itemID, sessionID).
			First(&item).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return fmt.Errorf("find cart item: %w", err)
		}
		if item.ProductVariant.ID == "" {
			return ErrVariantNotFound
		}
		if quantity > item.ProductVariant.StockQuantity {
			return fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, quantity, item.ProductVariant.StockQuantity)
		}

		res := tx.Model(&models.CartItem{}).
			Where("id = ? AND session_id = ?", itemID, sessionID).
			Update("quantity", quantity)
		if res.Error != nil {
			return fmt.Errorf("update cart item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCartItemNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.events, events.TopicCartItemUpdated, sessionID, events.CartItemPayload{
		SessionID: sessionID,
		ItemID:    itemID,
		ProductID: item.ProductID,
		VariantID: item.ProductVariantID,
		Quantity:  quantity,
	})
	return nil
}

func (s *Cart) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", itemID, sessionID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}

	publish(ctx, s.events, events.TopicCartItemRemoved, sessionID, events.CartItemPayload{
		SessionID: sessionID,
		ItemID:    itemID,
	})
	return nil
}

// Clear empties the session's cart and reports how many lines were removed.
func (s *Cart) Clear(ctx context.Context, sessionID string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Total sums price times quantity over the lines, rounded to cents.
func Total(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total.Round(2)
}

func (s *Cart) checkQuantity(quantity int) error {
	if quantity < 1 || quantity > s.opts.MaxQuantity {
		return fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidQuantity, quantity, s.opts.MaxQuantity)
	}
	return nil
}

func findVariant(tx *gorm.DB, productID, variantID string) (models.Product, models.ProductVariant, error) {
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, models.ProductVariant{}, ErrProductNotFound
		}
		return models.Product{}, models.ProductVariant{}, fmt.Errorf("find product: %w", err)
	}

	var variant models.ProductVariant
	err := tx.Where("id = ? AND product_id = ?", variantID, productID).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, models.ProductVariant{}, ErrVariantNotFound
		}
		return models.Product{}, models.ProductVariant{}, fmt.Errorf("find variant: %w", err)
	}
	return product, variant, nil
}
