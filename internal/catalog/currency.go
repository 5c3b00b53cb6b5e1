package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Converter rewrites a source-currency price string into the display currency
// using a fixed linear rate.
type Converter struct {
	Rate   float64
	Symbol string
}

// NewConverter creates a Converter.
func NewConverter(rate float64, symbol string) Converter {
	return Converter{Rate: rate, Symbol: symbol}
}

// Convert returns the display-currency form of price, formatted with thousands
// separators and two decimals. Inputs that are empty or carry no digits come
// back unchanged; conversion never fails the caller.
func (c Converter) Convert(price string) string {
	if price == "" {
		return price
	}

	n, ok := ParsePrice(price)
	if !ok {
		return price
	}

	return fmt.Sprintf("%s %s", c.Symbol, formatAmount(n*c.Rate))
}

// ParsePrice extracts a numeric value from a price string by stripping every
// character that is not a digit or a dot. The bool is false when nothing
// numeric remains or the residue is not a valid number.
func ParsePrice(price string) (float64, bool) {
	var sb strings.Builder
	hasDigit := false
	for _, r := range price {
		if r >= '0' && r <= '9' {
			hasDigit = true
			sb.WriteRune(r)
		} else if r == '.' {
			sb.WriteRune(r)
		}
	}
	if !hasDigit {
		return 0, false
	}

	n, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// formatAmount renders n with comma thousands separators and two decimals.
func formatAmount(n float64) string {
	s := strconv.FormatFloat(n, 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	sb.WriteByte('.')
	sb.WriteString(fracPart)
	return sb.String()
}
