package handlers

import (
	"LiquorStore/models"
	"LiquorStore/session"
	"LiquorStore/store"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const cartPath = "/api/v1/carts"

type cartLine struct {
	models.CartItem
	Size      string `json:"size"`
	LineTotal string `json:"line_total"`
}

type cartResponse struct {
	Items []cartLine `json:"items"`
	Count int        `json:"count"`
	Total string     `json:"total"`
}

func newCartResponse(items []models.CartItem) cartResponse {
	lines := make([]cartLine, 0, len(items))
	for i := range items {
		lines = append(lines, cartLine{
			CartItem:  items[i],
			Size:      items[i].ProductVariant.Size(),
			LineTotal: items[i].LineTotal().StringFixed(2),
		})
	}
	return cartResponse{
		Items: lines,
		Count: len(lines),
		Total: store.Total(items).StringFixed(2),
	}
}

func sessionID(c *gin.Context) (string, bool) {
	id, ok := session.FromContext(c)
	if !ok {
		respondError(c, errors.New("no session on request"), "session unavailable")
	}
	return id, ok
}

func GetCartHandler(c *gin.Context, cart *store.Cart) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := cart.FetchCart(ctx, id)
	if err != nil {
		respondError(c, err, "error loading cart")
		return
	}
	c.JSON(http.StatusOK, newCartResponse(items))
}

func AddToCartHandler(c *gin.Context, cart *store.Cart) {
	var cartItemReq struct {
		ProductID string `json:"product_id" binding:"required"`
		VariantID string `json:"variant_id" binding:"required"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&cartItemReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}
	quantity := 1
	if cartItemReq.Quantity != nil {
		quantity = *cartItemReq.Quantity
	}

	id, ok := sessionID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := cart.AddItem(ctx, id, cartItemReq.ProductID, cartItemReq.VariantID, quantity)
	if err != nil {
		respondError(c, err, "error adding item to cart")
		return
	}

	c.Header("Location", cartPath)
	c.JSON(http.StatusCreated, cartLine{
		CartItem:  item,
		Size:      item.ProductVariant.Size(),
		LineTotal: item.LineTotal().StringFixed(2),
	})
}

func UpdateCartItemQuantityHandler(c *gin.Context, cart *store.Cart) {
	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	id, ok := sessionID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := cart.UpdateQuantity(ctx, id, c.Param("itemID"), req.Quantity); err != nil {
		respondError(c, err, "error updating cart item")
		return
	}
	respondWithCart(c, cart, id)
}

func DeleteCartItemHandler(c *gin.Context, cart *store.Cart) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := cart.RemoveItem(ctx, id, c.Param("itemID")); err != nil {
		respondError(c, err, "error removing cart item")
		return
	}
	respondWithCart(c, cart, id)
}

func ClearCartHandler(c *gin.Context, cart *store.Cart) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	removed, err := cart.Clear(ctx, id)
	if err != nil {
		respondError(c, err, "error clearing cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "cart cleared",
		"removed": removed,
	})
}

// respondWithCart re-reads the cart after a change so the client sees the
// new lines and total.
func respondWithCart(c *gin.Context, cart *store.Cart, id string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := cart.FetchCart(ctx, id)
	if err != nil {
		respondError(c, err, "error loading cart")
		return
	}
	c.JSON(http.StatusOK, newCartResponse(items))
}
