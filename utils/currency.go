package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBaht formats an amount as Thai baht with thousands separators.
// Example: 1234.5 -> "฿1,234.50"
func FormatBaht(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	parts := strings.SplitN(amount.StringFixed(2), ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + "฿" + strings.Join(groups, ",") + "." + decimalPart
}
