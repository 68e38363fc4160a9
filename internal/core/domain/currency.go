package domain

import "github.com/shopspring/decimal"

var currencySymbols = map[string]string{
	"USD": "$",
	"INR": "₹",
	"EUR": "€",
	"GBP": "£",
	"CAD": "$",
	"AUD": "$",
	"JPY": "¥",
}

// CurrencySymbol returns the display symbol for an ISO currency code,
// falling back to the code itself followed by a space.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

// FormatPrice normalizes a decimal price string to two fraction digits.
// Strings the remote API sends that do not parse are returned unchanged.
func FormatPrice(price string) string {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return price
	}
	return d.StringFixed(2)
}
