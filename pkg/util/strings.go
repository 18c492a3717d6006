package util

import "fmt"

// FormatMoney renders a price with its currency marker, omitting the marker
// when the instrument has none (commodities, forex crosses).
func FormatMoney(currency string, value float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprintf("%s%.2f", currency, value)
}
