package handlers

import (
	"LiquorStore/models"
	"LiquorStore/store"
	"net/http"

	"github.com/gin-gonic/gin"
)

type variantView struct {
	models.ProductVariant
	Size  string `json:"size"`
	Label string `json:"label"`
}

func newVariantView(v models.ProductVariant) variantView {
	return variantView{ProductVariant: v, Size: v.Size(), Label: v.Label()}
}

// GetProductListHandler serves the storefront listing grouped by category.
func GetProductListHandler(c *gin.Context, catalog *store.Catalog) {
	ctx, cancel := requestContext(c)
	defer cancel()

	products, err := catalog.ListProducts(ctx)
	if err != nil {
		respondError(c, err, "error loading products")
		return
	}

	groups := store.GroupByCategory(products)
	store.ApplyBanners(groups, catalog.ListCategoryBanners(ctx))

	c.JSON(http.StatusOK, gin.H{
		"categories": groups,
		"count":      len(products),
	})
}

func GetCategoryListHandler(c *gin.Context, catalog *store.Catalog) {
	ctx, cancel := requestContext(c)
	defer cancel()

	c.JSON(http.StatusOK, gin.H{
		"banners": catalog.ListCategoryBanners(ctx),
	})
}

func GetProductDataHandler(c *gin.Context, catalog *store.Catalog) {
	ctx, cancel := requestContext(c)
	defer cancel()

	product, variants, err := catalog.GetProductByID(ctx, c.Param("productID"))
	if err != nil {
		respondError(c, err, "product not found")
		return
	}

	views := make([]variantView, 0, len(variants))
	for _, v := range variants {
		views = append(views, newVariantView(v))
	}
	c.JSON(http.StatusOK, gin.H{
		"product":      product,
		"variants":     views,
		"has_discount": product.HasDiscount(),
	})
}
