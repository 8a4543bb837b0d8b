package catalog

import "github.com/todaypicks/storefront/internal/sheets"

// ExtractCategories derives one category per sheet from the first row whose
// last three cells are all non-empty, interpreted positionally as
// (description, id, name). Sheets without a qualifying row contribute
// nothing; that is not an error. Output order follows the order slice.
func ExtractCategories(order []string, data map[string]sheets.Grid) []Category {
	categories := make([]Category, 0, len(order))

	for _, sheet := range order {
		grid, ok := data[sheet]
		if !ok {
			continue
		}
		for _, row := range grid {
			n := len(row)
			if n < 3 {
				continue
			}
			description := sheets.CellString(row.At(n - 3))
			id := sheets.CellString(row.At(n - 2))
			name := sheets.CellString(row.At(n - 1))
			if description == "" || id == "" || name == "" {
				continue
			}
			categories = append(categories, Category{
				ID:          id,
				Name:        name,
				Description: description,
			})
			break
		}
	}

	return categories
}
