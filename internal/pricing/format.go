package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatAmount renders an amount with grouped digits and two decimals for
// display, e.g. 1234567.5 -> "1,234,567.50".
func FormatAmount(amount float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatMoney prefixes the formatted amount with its currency code,
// e.g. "NGN 1,500.00".
func FormatMoney(amount float64, currency string) string {
	if currency == "" {
		return FormatAmount(amount)
	}
	return currency + " " + FormatAmount(amount)
}
