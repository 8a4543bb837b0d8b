package catalog

import "errors"

// Column indexes into a cleaned product row. This is the single place that
// must change if the spreadsheet layout changes.
const (
	ColImage = iota
	ColName
	ColSubTitle
	ColDescription
	ColPrice
	ColDiscount
	ColID
	ColImage2
	ColImage3
	ColLink
)

// Detail sheet column indexes (raw, the details sheet carries no leading
// metadata columns).
const (
	DetailColKey = iota
	DetailColValue
	DetailColProductID
)

// DetailsSheet is the shared sheet holding per-product detail pairs.
const DetailsSheet = "details"

// AllCategories is the pseudo-category aggregating every product sheet.
const AllCategories = "all"

var (
	// ErrCategoryNotFound is returned when a requested category is not
	// listed in the category meta sheet.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrProductNotFound is returned when a product id does not appear in
	// its category sheet.
	ErrProductNotFound = errors.New("product not found")

	// ErrNoData is returned when a listing resolves to zero products.
	ErrNoData = errors.New("no data available")
)

// Product is the display projection of one sheet row. Constructed fresh on
// every catalog fetch and never persisted.
type Product struct {
	ID                 string   `json:"id"`
	Image              string   `json:"image"`
	Image2             string   `json:"image2,omitempty"`
	Image3             string   `json:"image3,omitempty"`
	Name               string   `json:"name"`
	SubTitle           string   `json:"subTitle,omitempty"`
	Description        string   `json:"description,omitempty"`
	Price              string   `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage,omitempty"`
	Link               string   `json:"link,omitempty"`
	ProDetails         []Detail `json:"proDetails,omitempty"`
}

// Category identifies one product category tab.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Detail is one key/value pair scoped to a single product id.
type Detail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Listing is the shaped result of a catalog request.
type Listing struct {
	Products    []Product  `json:"products"`
	Categories  []Category `json:"categories"`
	CurrentName string     `json:"currentName"`
	CurrentDesc string     `json:"currentDesc"`
	Category    string     `json:"category"`
	TotalItems  int        `json:"totalItems"`
}
