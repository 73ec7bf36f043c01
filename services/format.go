package services

import (
	"fmt"
	"strings"
)

// Dash is the display value for metrics that cannot be computed, e.g.
// cost-per-ton on a bid with no recorded weight.
const Dash = "—"

// FormatUSD formats a float64 amount into US dollar notation with
// thousands grouping (e.g., $1,234,567.89). The result always includes
// exactly 2 decimal places.
func FormatUSD(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	// Format with 2 decimal places.
	raw := fmt.Sprintf("%.2f", amount)

	// Split into integer and decimal parts.
	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts commas into an integer string, grouping
// digits in threes from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatTons renders a tonnage with one decimal place, e.g. "57.0 T".
func FormatTons(tons float64) string {
	return fmt.Sprintf("%.1f T", tons)
}

// FormatHours renders labor hours with thousands grouping and one decimal
// place, e.g. "1,240.5 hrs".
func FormatHours(hours float64) string {
	negative := hours < 0
	if negative {
		hours = -hours
	}
	raw := fmt.Sprintf("%.1f", hours)
	parts := strings.SplitN(raw, ".", 2)
	s := applyThousandsGrouping(parts[0]) + "." + parts[1] + " hrs"
	if negative {
		s = "-" + s
	}
	return s
}

// FormatPct renders a percentage with one decimal place, e.g. "62.5%".
func FormatPct(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatPosition renders a percentile position, e.g. "P42".
func FormatPosition(position float64) string {
	return fmt.Sprintf("P%.0f", position)
}

// FormatSignedPct renders a deviation with an explicit sign, e.g. "+15.0%".
func FormatSignedPct(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}
