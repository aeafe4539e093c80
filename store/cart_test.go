package store

import (
	"LiquorStore/events"
	"LiquorStore/models"
	"errors"
	"testing"
)

func newCart(t *testing.T, merge bool) (*Cart, *events.Recorder, models.Product, []models.ProductVariant) {
	t.Helper()
	db := openDB(t)
	p, variants := seedProduct(t, db, "Glenfiddich 12", strPtr("Whisky"), "24.74", 5, 750, 1000)
	rec := &events.Recorder{}
	return NewCart(db, CartOptions{MaxQuantity: 10, MergeDuplicates: merge}, rec), rec, p, variants
}

func TestAddItemAndTotal(t *testing.T) {
	cart, rec, p, variants := newCart(t, false)

	item, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 2)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if item.ID == "" || item.ProductVariant.Size() != "750ml" {
		t.Fatalf("unexpected item: %+v", item)
	}

	items, err := cart.FetchCart(ctx, "sess-a")
	if err != nil {
		t.Fatalf("FetchCart returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Product.Name != "Glenfiddich 12" {
		t.Fatalf("product not attached: %+v", items[0])
	}
	if got := Total(items); got.StringFixed(2) != "49.48" {
		t.Fatalf("expected total 49.48, got %s", got.StringFixed(2))
	}

	if topics := rec.Topics(); len(topics) != 1 || topics[0] != events.TopicCartItemAdded {
		t.Fatalf("unexpected events: %v", topics)
	}
}

func TestFetchCartUnknownSession(t *testing.T) {
	cart, _, _, _ := newCart(t, false)

	items, err := cart.FetchCart(ctx, "nobody")
	if err != nil {
		t.Fatalf("FetchCart returned error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil cart, got %#v", items)
	}
	if !Total(items).IsZero() {
		t.Fatalf("expected zero total, got %s", Total(items))
	}
}

func TestAddItemDuplicateKeepsDistinctLines(t *testing.T) {
	cart, _, p, variants := newCart(t, false)

	for i := 0; i < 2; i++ {
		if _, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1); err != nil {
			t.Fatalf("AddItem #%d returned error: %v", i, err)
		}
	}

	items, _ := cart.FetchCart(ctx, "sess-a")
	if len(items) != 2 {
		t.Fatalf("expected 2 distinct lines, got %d", len(items))
	}
}

func TestAddItemDuplicateMerges(t *testing.T) {
	cart, _, p, variants := newCart(t, true)

	first, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	second, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 2)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if second.ID != first.ID || second.Quantity != 3 {
		t.Fatalf("expected merged line with quantity 3, got %+v", second)
	}

	items, _ := cart.FetchCart(ctx, "sess-a")
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected single merged line, got %+v", items)
	}

	// Different variant is still its own line.
	if _, err := cart.AddItem(ctx, "sess-a", p.ID, variants[1].ID, 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	items, _ = cart.FetchCart(ctx, "sess-a")
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
}

func TestAddItemMergeRespectsStock(t *testing.T) {
	cart, _, p, variants := newCart(t, true)

	if _, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 4); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	_, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 2)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestAddItemRejects(t *testing.T) {
	cart, rec, p, variants := newCart(t, false)
	other, otherVariants := seedProduct(t, cart.db, "Other", nil, "5.00", 1, 330)

	tests := []struct {
		name      string
		productID string
		variantID string
		quantity  int
		want      error
	}{
		{"zero quantity", p.ID, variants[0].ID, 0, ErrInvalidQuantity},
		{"negative quantity", p.ID, variants[0].ID, -1, ErrInvalidQuantity},
		{"above maximum", p.ID, variants[0].ID, 11, ErrInvalidQuantity},
		{"above stock", p.ID, variants[0].ID, 6, ErrInsufficientStock},
		{"unknown product", "missing", variants[0].ID, 1, ErrProductNotFound},
		{"unknown variant", p.ID, "missing", 1, ErrVariantNotFound},
		{"variant of another product", p.ID, otherVariants[0].ID, 1, ErrVariantNotFound},
		{"product of another variant", other.ID, variants[0].ID, 1, ErrVariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cart.AddItem(ctx, "sess-a", tt.productID, tt.variantID, tt.quantity)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	items, _ := cart.FetchCart(ctx, "sess-a")
	if len(items) != 0 {
		t.Fatalf("rejected adds must not create lines, got %d", len(items))
	}
	if len(rec.Events()) != 0 {
		t.Fatalf("rejected adds must not publish, got %v", rec.Topics())
	}
}

func TestUpdateQuantity(t *testing.T) {
	cart, rec, p, variants := newCart(t, false)
	item, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if err := cart.UpdateQuantity(ctx, "sess-a", item.ID, 4); err != nil {
		t.Fatalf("UpdateQuantity returned error: %v", err)
	}
	items, _ := cart.FetchCart(ctx, "sess-a")
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", items[0].Quantity)
	}

	if err := cart.UpdateQuantity(ctx, "sess-a", item.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := cart.UpdateQuantity(ctx, "sess-a", item.ID, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := cart.UpdateQuantity(ctx, "sess-a", "missing", 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	topics := rec.Topics()
	if len(topics) != 2 || topics[1] != events.TopicCartItemUpdated {
		t.Fatalf("unexpected events: %v", topics)
	}
}

func TestCartIsolatedBetweenSessions(t *testing.T) {
	cart, _, p, variants := newCart(t, false)
	item, err := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1)
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	if items, _ := cart.FetchCart(ctx, "sess-b"); len(items) != 0 {
		t.Fatalf("session b sees session a's cart: %+v", items)
	}
	if err := cart.UpdateQuantity(ctx, "sess-b", item.ID, 3); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound for foreign update, got %v", err)
	}
	if err := cart.RemoveItem(ctx, "sess-b", item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound for foreign remove, got %v", err)
	}

	items, _ := cart.FetchCart(ctx, "sess-a")
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("session a's line was touched: %+v", items)
	}
}

func TestRemoveItem(t *testing.T) {
	cart, rec, p, variants := newCart(t, false)
	item, _ := cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1)
	keep, _ := cart.AddItem(ctx, "sess-a", p.ID, variants[1].ID, 1)

	if err := cart.RemoveItem(ctx, "sess-a", item.ID); err != nil {
		t.Fatalf("RemoveItem returned error: %v", err)
	}
	if err := cart.RemoveItem(ctx, "sess-a", item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("second remove: expected ErrCartItemNotFound, got %v", err)
	}

	items, _ := cart.FetchCart(ctx, "sess-a")
	if len(items) != 1 || items[0].ID != keep.ID {
		t.Fatalf("unexpected remaining lines: %+v", items)
	}
	if topics := rec.Topics(); topics[len(topics)-1] != events.TopicCartItemRemoved {
		t.Fatalf("unexpected events: %v", topics)
	}
}

func TestClear(t *testing.T) {
	cart, _, p, variants := newCart(t, false)
	_, _ = cart.AddItem(ctx, "sess-a", p.ID, variants[0].ID, 1)
	_, _ = cart.AddItem(ctx, "sess-a", p.ID, variants[1].ID, 1)
	_, _ = cart.AddItem(ctx, "sess-b", p.ID, variants[1].ID, 1)

	n, err := cart.Clear(ctx, "sess-a")
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 lines removed, got %d", n)
	}
	if items, _ := cart.FetchCart(ctx, "sess-b"); len(items) != 1 {
		t.Fatalf("other session affected: %+v", items)
	}
}

func TestTwoVariantCartTotal(t *testing.T) {
	db := openDB(t)
	p1, v1 := seedProduct(t, db, "Rioja Reserva", strPtr("Wine"), "19.99", 10, 750)
	p2, v2 := seedProduct(t, db, "Pilsner 6-pack", strPtr("Beer"), "9.50", 10, 330)
	cart := NewCart(db, CartOptions{MaxQuantity: 10}, nil)

	if _, err := cart.AddItem(ctx, "sess-a", p1.ID, v1[0].ID, 2); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}
	if _, err := cart.AddItem(ctx, "sess-a", p2.ID, v2[0].ID, 1); err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	items, err := cart.FetchCart(ctx, "sess-a")
	if err != nil {
		t.Fatalf("FetchCart returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if got := Total(items).StringFixed(2); got != "49.48" {
		t.Fatalf("expected total 49.48, got %s", got)
	}
}
