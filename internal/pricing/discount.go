// Package pricing computes charge amounts from catalog prices and
// discount percentages.
package pricing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice parses a catalog price string. Thousands separators and
// surrounding whitespace are tolerated since prices come straight from
// spreadsheet cells.
func ParsePrice(price string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(price), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", price, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", price)
	}
	return v, nil
}

// Discounted returns the amount to charge after applying a percentage
// discount to a catalog price. A zero or negative percentage leaves the
// price untouched.
func Discounted(price string, pct float64) (float64, error) {
	base, err := ParsePrice(price)
	if err != nil {
		return 0, err
	}
	if pct <= 0 {
		return base, nil
	}
	if pct > 100 {
		pct = 100
	}
	return Round2(base * (1 - pct/100)), nil
}

// Round2 rounds to two decimal places, the resolution of every currency
// the payment gateway supports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
