package store

import (
	"context"
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

var exportHeader = []string{
	"Product ID", "Name", "Brand", "Category", "ABV %", "Rating", "Reviews",
	"Variant ID", "Size", "Price", "Original Price", "Stock",
}

// ExportProducts writes the catalog as an xlsx workbook, one row per variant.
// A product without variants still gets a row with the variant cells empty.
func (s *Admin) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.ListProductsWithVariants(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range exportHeader {
		header.AddCell().SetString(title)
	}

	for i := range products {
		p := &products[i]
		if len(p.Variants) == 0 {
			productCells(sheet.AddRow(), p.ID, p.Name, p.Brand, p.CategoryName(), p.AlcoholPercentage, p.Rating, p.ReviewsCount)
			continue
		}
		for j := range p.Variants {
			v := &p.Variants[j]
			row := sheet.AddRow()
			productCells(row, p.ID, p.Name, p.Brand, p.CategoryName(), p.AlcoholPercentage, p.Rating, p.ReviewsCount)
			row.AddCell().SetString(v.ID)
			row.AddCell().SetString(v.Label())
			row.AddCell().SetString(v.Price.StringFixed(2))
			if v.OriginalPrice.Valid {
				row.AddCell().SetString(v.OriginalPrice.Decimal.StringFixed(2))
			} else {
				row.AddCell().SetString("")
			}
			row.AddCell().SetInt(v.StockQuantity)
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func productCells(row *xlsx.Row, id, name, brand, category string, abv, rating float64, reviews int) {
	row.AddCell().SetString(id)
	row.AddCell().SetString(name)
	row.AddCell().SetString(brand)
	row.AddCell().SetString(category)
	row.AddCell().SetFloat(abv)
	row.AddCell().SetFloat(rating)
	row.AddCell().SetInt(reviews)
}
