package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCompare(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want1    string
		want2    string
		detected bool
	}{
		{"vs connective", "compare iphone 13 vs galaxy s21", "iphone 13", "galaxy s21", true},
		{"and connective", "compare iphone 13 and galaxy s21", "iphone 13", "galaxy s21", true},
		{"with connective", "compare macbook air with dell xps", "macbook air", "dell xps", true},
		{"between form", "compare between iphone 13 and galaxy s21", "iphone 13", "galaxy s21", true},
		{"case insensitive", "Compare iPhone 13 VS Galaxy S21", "iphone 13", "galaxy s21", true},
		{"surrounding whitespace", "  compare redmi note vs realme gt  ", "redmi note", "realme gt", true},
		{"no compare keyword", "iphone 13 vs galaxy s21", "", "", false},
		{"plain search", "cheap phone under 20000", "", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pair, ok := ExtractCompare(tc.input)
			assert.Equal(t, tc.detected, ok)
			if tc.detected {
				assert.Equal(t, tc.want1, pair.Subject1)
				assert.Equal(t, tc.want2, pair.Subject2)
			}
		})
	}
}

func TestParse_PriceLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"under k-suffix", "phone under 15k", intPtr(15000)},
		{"under plain", "phone under 20000", intPtr(20000)},
		{"below", "laptop below 50000", intPtr(50000)},
		{"less than", "shoes less than 3000", intPtr(3000)},
		{"comma separated", "laptop under 1,50,000", intPtr(150000)},
		{"uppercase marker", "phone UNDER 10K", intPtr(10000)},
		{"no pattern", "best gaming laptop", nil},
		{"bare number", "iphone 13", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.input).PriceLimit
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestParse_Brand(t *testing.T) {
	got := Parse("Samsung phone under 20000")
	require.NotNil(t, got.Brand)
	assert.Equal(t, "samsung", *got.Brand)

	assert.Nil(t, Parse("cheap gaming laptop").Brand)
}

func TestParse_Keywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"marker tokens removed", "phone under 20000", "phone 20000"},
		{"less than removed", "shoes less than 3000", "shoes 3000"},
		{"bare k removed", "phone under 15 k", "phone 15"},
		{"no markers", "red running shoes", "red running shoes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.input).Keywords)
		})
	}
}

func TestParse_Category(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"smartphone under 20k", "phone"},
		{"macbook for students", "laptop"},
		{"running sneakers", "shoes"},
		{"silk sari", "saree"},
	}

	for _, tc := range tests {
		got := Parse(tc.input).Category
		require.NotNil(t, got, tc.input)
		assert.Equal(t, tc.want, *got)
	}

	assert.Nil(t, Parse("wireless earbuds").Category)
}

func intPtr(n int) *int { return &n }
