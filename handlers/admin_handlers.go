package handlers

import (
	"LiquorStore/middleware"
	"LiquorStore/store"
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func CreateProductHandler(c *gin.Context, admin *store.Admin) {
	var productReq struct {
		store.ProductInput
		Variant store.VariantInput `json:"variant"`
	}
	if err := c.ShouldBindJSON(&productReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product, variant, err := admin.CreateProduct(ctx, middleware.AdminEmail(c), productReq.ProductInput, productReq.Variant)
	if err != nil {
		respondError(c, err, "error creating product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "product created",
		"product": product,
		"variant": newVariantView(variant),
	})
}

func AddVariantHandler(c *gin.Context, admin *store.Admin) {
	var variantReq store.VariantInput
	if err := c.ShouldBindJSON(&variantReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	variant, err := admin.AddVariant(ctx, c.Param("productID"), variantReq)
	if err != nil {
		respondError(c, err, "error adding variant")
		return
	}
	c.JSON(http.StatusCreated, newVariantView(variant))
}

func UpsertCategoryHandler(c *gin.Context, admin *store.Admin) {
	var categoryReq struct {
		Name      string  `json:"name" binding:"required"`
		BannerURL *string `json:"banner_url"`
	}
	if err := c.ShouldBindJSON(&categoryReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request body",
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	category, err := admin.UpsertCategory(ctx, categoryReq.Name, categoryReq.BannerURL)
	if err != nil {
		respondError(c, err, "error saving category")
		return
	}
	c.JSON(http.StatusOK, category)
}

func ExportProductsHandler(c *gin.Context, admin *store.Admin) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var buf bytes.Buffer
	if err := admin.ExportProducts(ctx, &buf); err != nil {
		respondError(c, err, "error exporting products")
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
