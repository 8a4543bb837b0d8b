package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/todaypicks/storefront/internal/geo"
)

// LocationAPI resolves the caller's country and checkout currency.
type LocationAPI struct {
	Geo *geo.Client
}

// GetUserLocation resolves the caller's location from their IP. Lookups
// never fail outright; unresolvable callers get the Nigerian default.
// GET /api/user-location
func (a *LocationAPI) GetUserLocation(c *gin.Context) {
	ip := c.GetHeader("X-Forwarded-For")
	if ip != "" {
		// The first hop is the original client.
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip == "" {
		ip = c.GetHeader("X-Real-IP")
	}
	if ip == "" {
		ip = c.ClientIP()
	}

	loc := a.Geo.Lookup(c.Request.Context(), ip)
	if loc.Currency == "" {
		loc.Currency = geo.CurrencyFor(loc.CountryCode)
	}

	c.JSON(http.StatusOK, gin.H{
		"ip":           loc.IP,
		"country_code": loc.CountryCode,
		"country_name": loc.CountryName,
		"currency":     loc.Currency,
		"timezone":     loc.Timezone,
		"is_african":   geo.IsAfrican(loc.CountryCode),
		"region":       geo.Region(loc.CountryCode),
		"fallback":     loc.Fallback,
	})
}
