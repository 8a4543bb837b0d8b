package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/todaypicks/storefront/internal/catalog"
	"github.com/todaypicks/storefront/internal/ledger"
	"github.com/todaypicks/storefront/internal/payment"
	"github.com/todaypicks/storefront/internal/sheets"
)

// respondError translates domain errors into HTTP responses. Validation
// failures carry the field that failed so the frontend can react to
// each mismatch differently.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *sheets.NotFoundError
		timeout    *sheets.TimeoutError
		empty      *sheets.EmptyError
		validation *payment.ValidationError
		config     *payment.ConfigurationError
		gateway    *payment.GatewayError
	)

	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, catalog.ErrNoData), errors.As(err, &empty):
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found"})

	case errors.As(err, &timeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})

	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Message,
			"field": validation.Field,
		})

	case errors.As(err, &config):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment gateway is not configured"})

	case errors.As(err, &gateway):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway request failed"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
