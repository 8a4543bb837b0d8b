package catalog

import "github.com/todaypicks/storefront/internal/sheets"

// ProductFromRow maps one cleaned sheet row to a Product. Cells are indexed
// defensively: short rows yield zero values instead of errors.
func ProductFromRow(row sheets.Row) Product {
	price := sheets.CellString(row.At(ColPrice))
	if price == "" {
		price = "0"
	}

	discount, _ := sheets.CellFloat(row.At(ColDiscount))

	return Product{
		ID:                 sheets.CellString(row.At(ColID)),
		Image:              sheets.CellString(row.At(ColImage)),
		Image2:             sheets.CellString(row.At(ColImage2)),
		Image3:             sheets.CellString(row.At(ColImage3)),
		Name:               sheets.CellString(row.At(ColName)),
		SubTitle:           sheets.CellString(row.At(ColSubTitle)),
		Description:        sheets.CellString(row.At(ColDescription)),
		Price:              price,
		DiscountPercentage: discount,
		Link:               sheets.CellString(row.At(ColLink)),
	}
}

// ProductsFromGrid maps every row of a cleaned grid to products, skipping
// rows with no id and no name.
func ProductsFromGrid(grid sheets.Grid) []Product {
	products := make([]Product, 0, len(grid))
	for _, row := range grid {
		p := ProductFromRow(row)
		if p.ID == "" && p.Name == "" {
			continue
		}
		products = append(products, p)
	}
	return products
}
