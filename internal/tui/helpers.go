package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mabel/billfold/internal/domain"
)

// formatMoney formats money as "$X,XXX.XX" with comma separators.
// The symbol comes from the invoice's currency field.
func formatMoney(symbol string, amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	if negative {
		return "-" + symbol + string(result) + decPart
	}
	return symbol + string(result) + decPart
}

// formatQuantity drops trailing zeros so "2" renders as 2, not 2.00
func formatQuantity(q float64) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if len(s) > 8 {
		s = fmt.Sprintf("%.2f", q)
	}
	return s
}

// parseAmount coerces form input to a number the way a numeric input would:
// anything unparseable becomes 0. ParseFloat accepts "nan" and "inf", so
// the result is clamped too.
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return domain.Sanitize(f)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
