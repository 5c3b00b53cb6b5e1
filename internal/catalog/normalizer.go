// Package catalog shapes raw provider payloads into canonical product records
// and handles display-currency conversion.
package catalog

import (
	"sort"
	"strings"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/provider"
)

// ProductRecord is the canonical product representation returned to clients.
// Price stays a string in whatever form the provider (or the currency
// converter) produced.
type ProductRecord struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// Filters narrows normalization output. A nil PriceLimit or empty Brand means
// the corresponding filter is off.
type Filters struct {
	Brand      string
	PriceLimit *int
}

// Normalize maps a raw provider response to an ordered slice of
// ProductRecords. It never fails: a nil or malformed response yields an empty
// slice. Items without both title and url are discarded, the brand filter is a
// case-insensitive substring match on the title, and the price-limit filter
// only eliminates items whose price parses to a number above the limit.
//
// The final ascending price sort is skipped for the entire set when any kept
// item has an unparseable price. That all-or-nothing behavior is intentional
// and load-bearing for clients that rely on provider order as the fallback.
func Normalize(resp *provider.SearchResponse, f Filters) []ProductRecord {
	if resp == nil || len(resp.Data.Products) == 0 {
		return []ProductRecord{}
	}

	records := make([]ProductRecord, 0, len(resp.Data.Products))
	for _, p := range resp.Data.Products {
		if p.Title == "" || p.URL == "" {
			continue
		}

		if f.Brand != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Brand)) {
			continue
		}

		numPrice, ok := ParsePrice(p.Price)
		if f.PriceLimit != nil && ok && numPrice > float64(*f.PriceLimit) {
			continue
		}

		records = append(records, ProductRecord{
			Title: p.Title,
			Price: p.Price,
			URL:   p.URL,
			Image: p.Photo,
		})
	}

	sortByPrice(records)
	return records
}

// sortByPrice orders records ascending by parsed numeric price, or leaves the
// slice untouched if any price fails to parse.
func sortByPrice(records []ProductRecord) {
	for _, r := range records {
		if _, ok := ParsePrice(r.Price); !ok {
			return
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		ni, _ := ParsePrice(records[i].Price)
		nj, _ := ParsePrice(records[j].Price)
		return ni < nj
	})
}
