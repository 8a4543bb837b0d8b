package catalog

import "github.com/todaypicks/storefront/internal/sheets"

// DetailsForProduct filters the shared details grid down to the key/value
// pairs belonging to one product id. Blank keys or values are skipped.
func DetailsForProduct(grid sheets.Grid, productID string) []Detail {
	var details []Detail
	for _, row := range grid {
		if sheets.CellString(row.At(DetailColProductID)) != productID {
			continue
		}
		key := sheets.CellString(row.At(DetailColKey))
		value := sheets.CellString(row.At(DetailColValue))
		if key == "" || value == "" {
			continue
		}
		details = append(details, Detail{Key: key, Value: value})
	}
	return details
}
