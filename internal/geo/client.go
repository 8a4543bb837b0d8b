// Package geo resolves a caller's country from their IP so the checkout
// can pick a sensible currency. Lookups are best-effort: any failure
// falls back to the Nigerian default rather than surfacing an error.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Location describes where a request appears to originate.
type Location struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Currency    string `json:"currency"`
	City        string `json:"city,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Fallback    bool   `json:"fallback"`
}

// DefaultLocation is returned whenever a lookup cannot be completed.
func DefaultLocation(ip string) Location {
	return Location{
		IP:          ip,
		CountryCode: "NG",
		CountryName: "Nigeria",
		Currency:    "NGN",
		Timezone:    "Africa/Lagos",
		Fallback:    true,
	}
}

// ClientOptions configures a geo Client.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to an ipapi-style geolocation endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewClient creates a geolocation client.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://ipapi.co"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		logger:     log.With().Str("component", "geo").Logger(),
	}
}

type lookupResponse struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Currency    string `json:"currency"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

// Lookup resolves the location for ip. It never returns an error: private
// addresses, provider failures and timeouts all degrade to the default
// location.
func (c *Client) Lookup(ctx context.Context, ip string) Location {
	if ip == "" || IsPrivateIP(ip) {
		return DefaultLocation(ip)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to build geo lookup request")
		return DefaultLocation(ip)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("Geo lookup failed")
		return DefaultLocation(ip)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("ip", ip).Msg("Geo lookup returned non-OK status")
		return DefaultLocation(ip)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to decode geo lookup response")
		return DefaultLocation(ip)
	}
	if body.Error || body.CountryCode == "" {
		c.logger.Warn().Str("ip", ip).Str("reason", body.Reason).Msg("Geo provider could not resolve IP")
		return DefaultLocation(ip)
	}

	loc := Location{
		IP:          ip,
		CountryCode: body.CountryCode,
		CountryName: body.CountryName,
		Currency:    body.Currency,
		City:        body.City,
		Timezone:    body.Timezone,
	}
	if loc.Currency == "" {
		loc.Currency = CurrencyFor(loc.CountryCode)
	}
	return loc
}

// IsPrivateIP reports whether ip is a loopback, link-local or RFC 1918
// address, or is unparseable.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}

// CurrencyFor maps a country code to the checkout currency. Nigerian
// customers pay in naira; everyone else pays in US dollars.
func CurrencyFor(countryCode string) string {
	if strings.EqualFold(countryCode, "NG") {
		return "NGN"
	}
	return "USD"
}
