// Package query turns free-text shopping queries into structured intents.
package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Intent is the structured interpretation of a free-text query. Brand,
// PriceLimit and Category are nil when the query carries no such signal;
// absence is meaningful and distinct from a zero value.
type Intent struct {
	Brand      *string `json:"brand"`
	PriceLimit *int    `json:"price_limit"`
	Keywords   string  `json:"keywords"`
	Category   *string `json:"category"`
}

// ComparePair holds the two subjects of a head-to-head comparison query.
type ComparePair struct {
	Subject1 string `json:"subject_1"`
	Subject2 string `json:"subject_2"`
}

// Known brand tokens matched as substrings of the lowercased query.
var brands = []string{
	"samsung", "vivo", "oppo", "mi", "xiaomi", "redmi",
	"realme", "apple", "iphone", "motorola", "oneplus",
}

// categoryOrder keeps category detection deterministic.
var categoryOrder = []string{"phone", "laptop", "shoes", "saree"}

var categories = map[string][]string{
	"phone":  {"phone", "mobile", "smartphone", "iphone"},
	"laptop": {"laptop", "notebook", "macbook"},
	"shoes":  {"shoe", "sneaker"},
	"saree":  {"saree", "sari"},
}

// Tokens stripped from the query when deriving residual keywords.
var markerTokens = map[string]bool{
	"under": true, "below": true, "less": true, "than": true, "k": true,
}

var priceRe = regexp.MustCompile(`(?i)(?:under|below|less\s+than)\s*([\d,]+)\s*(k?)\b`)

// The "between ... and" form is checked before the bare "and" connective so
// the leading "between" is not swallowed into the first subject.
var compareRes = []*regexp.Regexp{
	regexp.MustCompile(`compare between (.+?) and (.+)`),
	regexp.MustCompile(`compare (.+?) vs (.+)`),
	regexp.MustCompile(`compare (.+?) and (.+)`),
	regexp.MustCompile(`compare (.+?) with (.+)`),
}

// ExtractCompare detects a comparison query and returns the two trimmed
// subjects. Detection is case-insensitive and short-circuits all other parsing.
func ExtractCompare(text string) (ComparePair, bool) {
	t := strings.ToLower(strings.TrimSpace(text))

	for _, re := range compareRes {
		if m := re.FindStringSubmatch(t); m != nil {
			return ComparePair{
				Subject1: strings.TrimSpace(m[1]),
				Subject2: strings.TrimSpace(m[2]),
			}, true
		}
	}
	return ComparePair{}, false
}

// Parse extracts brand, price ceiling, category and residual keywords from a
// query already translated to the working language. It never fails; the worst
// case returns the whole query as keywords.
func Parse(text string) Intent {
	q := strings.ToLower(text)

	return Intent{
		Brand:      extractBrand(q),
		PriceLimit: extractPriceLimit(q),
		Keywords:   extractKeywords(q),
		Category:   extractCategory(q),
	}
}

func extractBrand(q string) *string {
	for _, b := range brands {
		if strings.Contains(q, b) {
			brand := b
			return &brand
		}
	}
	return nil
}

// extractPriceLimit matches "under/below/less than N" with an optional "k"
// suffix meaning thousands ("under 15k" → 15000).
func extractPriceLimit(q string) *int {
	m := priceRe.FindStringSubmatch(q)
	if m == nil {
		return nil
	}

	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	if m[2] != "" {
		n *= 1000
	}
	return &n
}

func extractKeywords(q string) string {
	var kept []string
	for _, w := range strings.Fields(q) {
		if !markerTokens[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func extractCategory(q string) *string {
	for _, cat := range categoryOrder {
		for _, key := range categories[cat] {
			if strings.Contains(q, key) {
				category := cat
				return &category
			}
		}
	}
	return nil
}
