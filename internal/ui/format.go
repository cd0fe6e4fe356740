package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// money renders a decimal amount with the configured currency. USD keeps
// the conventional symbol; everything else gets the ISO code as a suffix.
func money(amount decimal.Decimal, currency string) string {
	fixed := amount.StringFixed(2)
	if currency == "" || strings.EqualFold(currency, "USD") {
		return "$" + fixed
	}
	return fixed + " " + strings.ToUpper(currency)
}

// truncate shortens s to width runes, appending an ellipsis when it cuts.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
