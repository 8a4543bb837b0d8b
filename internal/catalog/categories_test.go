package catalog

import (
	"testing"

	"github.com/todaypicks/storefront/internal/sheets"
)

func TestExtractCategories(t *testing.T) {
	data := map[string]sheets.Grid{
		"shoes": {
			{"img.png", "Runner", "", "", "100", nil, "P1", "", "", ""},
			{"", "", "", "", "", "", "", "Great shoes", "shoes", "Shoes"},
		},
		"bags": {
			{"", "", "", "Carry it all", "bags", "Bags"},
		},
	}

	categories := ExtractCategories([]string{"shoes", "bags"}, data)

	if len(categories) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(categories))
	}

	// Output follows the order slice regardless of map iteration.
	if categories[0].ID != "shoes" || categories[1].ID != "bags" {
		t.Errorf("category order = %q, %q; want shoes, bags", categories[0].ID, categories[1].ID)
	}
	if categories[0].Name != "Shoes" || categories[0].Description != "Great shoes" {
		t.Errorf("shoes category = %+v, want Name=Shoes Description=Great shoes", categories[0])
	}

	// Every extracted field is non-empty.
	for _, c := range categories {
		if c.ID == "" || c.Name == "" || c.Description == "" {
			t.Errorf("category %+v has an empty field", c)
		}
	}
}

func TestExtractCategoriesOnePerSheet(t *testing.T) {
	data := map[string]sheets.Grid{
		"shoes": {
			{"", "", "First", "shoes", "Shoes"},
			{"", "", "Second", "shoes2", "Shoes2"},
		},
	}

	categories := ExtractCategories([]string{"shoes"}, data)

	if len(categories) != 1 {
		t.Fatalf("len(categories) = %d, want 1", len(categories))
	}
	if categories[0].Description != "First" {
		t.Errorf("Description = %q, want the first qualifying row", categories[0].Description)
	}
}

func TestExtractCategoriesSkipsIncompleteRows(t *testing.T) {
	data := map[string]sheets.Grid{
		"shoes": {
			{"", "", "Only desc", "", ""},
			{"", "", "", "id-only", ""},
			{"short"},
		},
		"missing": nil,
	}

	categories := ExtractCategories([]string{"shoes", "missing", "unknown"}, data)

	if len(categories) != 0 {
		t.Errorf("len(categories) = %d, want 0", len(categories))
	}
}
