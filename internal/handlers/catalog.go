package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/todaypicks/storefront/internal/catalog"
)

// CatalogAPI exposes the product catalog over HTTP.
type CatalogAPI struct {
	Catalog *catalog.Service
}

// ListingResponse represents a category listing
type ListingResponse struct {
	Products    []catalog.Product  `json:"products"`
	Categories  []catalog.Category `json:"categories"`
	CurrentName string             `json:"currentName"`
	CurrentDesc string             `json:"currentDesc"`
	Category    string             `json:"category"`
	TotalItems  int                `json:"totalItems"`
}

func listingResponse(l *catalog.Listing) ListingResponse {
	return ListingResponse{
		Products:    l.Products,
		Categories:  l.Categories,
		CurrentName: l.CurrentName,
		CurrentDesc: l.CurrentDesc,
		Category:    l.Category,
		TotalItems:  l.TotalItems,
	}
}

// GetProducts returns the listing for one category, or for every category
// when none is given.
// GET /api/products?category=shoes
func (a *CatalogAPI) GetProducts(c *gin.Context) {
	category := c.Query("category")

	listing, err := a.Catalog.Listing(c.Request.Context(), category)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Failed to build listing")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listingResponse(listing))
}

// GetProduct returns one product with its detail pairs attached.
// GET /api/products/:category/:productId
func (a *CatalogAPI) GetProduct(c *gin.Context) {
	category := c.Param("category")
	productID := c.Param("productId")

	product, err := a.Catalog.Product(c.Request.Context(), category, productID)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Str("product", productID).Msg("Failed to fetch product")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetCategories returns the category list.
// GET /api/categories
func (a *CatalogAPI) GetCategories(c *gin.Context) {
	categories, err := a.Catalog.Categories(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch categories")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetDetails returns the key/value detail pairs for one product.
// GET /api/details/:productId
func (a *CatalogAPI) GetDetails(c *gin.Context) {
	productID := c.Param("productId")

	details, err := a.Catalog.Details(c.Request.Context(), productID)
	if err != nil {
		log.Warn().Err(err).Str("product", productID).Msg("Failed to fetch details")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": details})
}
