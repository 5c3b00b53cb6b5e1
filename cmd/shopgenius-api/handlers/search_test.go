package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/cache"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/catalog"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/observability"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/provider"
)

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.out != "" {
		return s.out, nil
	}
	return text, nil
}

type stubSearcher struct {
	resp    *provider.SearchResponse
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string, _ int) (*provider.SearchResponse, error) {
	s.queries = append(s.queries, query)
	return s.resp, s.err
}

type stubRecorder struct {
	searches []string
	prices   [][]catalog.ProductRecord
}

func (s *stubRecorder) SaveSearch(_ context.Context, query string, _ []catalog.ProductRecord) error {
	s.searches = append(s.searches, query)
	return nil
}

func (s *stubRecorder) SavePrices(_ context.Context, products []catalog.ProductRecord) error {
	s.prices = append(s.prices, products)
	return nil
}

func providerResponse(products ...provider.RawProduct) *provider.SearchResponse {
	return &provider.SearchResponse{
		Status: "OK",
		Data:   provider.SearchData{Products: products},
	}
}

func newTestHandler(tr *stubTranslator, se *stubSearcher, rec *stubRecorder) *SearchHandler {
	return NewSearchHandler(observability.Nop(), SearchHandlerConfig{
		Translator: tr,
		Searcher:   se,
		Cache:      cache.NewMemoryClient(10),
		CacheTTL:   time.Minute,
		Converter:  catalog.NewConverter(83, "₹"),
		History:    rec,
		MaxResults: 10,
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	h := newTestHandler(&stubTranslator{}, &stubSearcher{}, &stubRecorder{})

	req := httptest.NewRequest("GET", "/search", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestSearch_GreetingShortCircuits(t *testing.T) {
	tr := &stubTranslator{}
	se := &stubSearcher{}
	rec := &stubRecorder{}
	h := newTestHandler(tr, se, rec)

	for _, q := range []string{"hi", "Hello", "  HEY  ", "hii", "hola"} {
		req := httptest.NewRequest("GET", "/search?query="+url.QueryEscape(q), nil)
		w := httptest.NewRecorder()
		h.Search(w, req)

		require.Equal(t, 200, w.Code)

		var resp GreetingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "greeting", resp.Mode)
		assert.NotEmpty(t, resp.Reply)
	}

	assert.Zero(t, tr.calls, "greeting must not reach the translator")
	assert.Empty(t, se.queries, "greeting must not reach the provider")
	assert.Empty(t, rec.searches, "greeting must not be recorded")
}

func TestSearch_NormalFlow(t *testing.T) {
	tr := &stubTranslator{}
	se := &stubSearcher{resp: providerResponse(
		provider.RawProduct{Title: "Samsung Galaxy A15", Price: "$120.00", URL: "https://x/a15"},
		provider.RawProduct{Title: "Samsung Galaxy S23", Price: "$700.00", URL: "https://x/s23"},
		provider.RawProduct{Title: "Pixel 8", Price: "$500.00", URL: "https://x/p8"},
	)}
	rec := &stubRecorder{}
	h := newTestHandler(tr, se, rec)

	req := httptest.NewRequest("GET", "/search?query=samsung+phone+under+200", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "search", resp.Mode)
	assert.Equal(t, "samsung phone under 200", resp.Query)
	require.NotNil(t, resp.Filters.Brand)
	assert.Equal(t, "samsung", *resp.Filters.Brand)
	require.NotNil(t, resp.Filters.PriceLimit)
	assert.Equal(t, 200, *resp.Filters.PriceLimit)

	// Brand and price filters leave only the A15, converted to display currency.
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Samsung Galaxy A15", resp.Results[0].Title)
	assert.Equal(t, "₹ 9,960.00", resp.Results[0].Price)

	// The provider is queried with marker tokens stripped.
	require.Len(t, se.queries, 1)
	assert.Equal(t, "samsung phone 200", se.queries[0])

	// History records the original query, once per endpoint.
	require.Len(t, rec.searches, 1)
	assert.Equal(t, "samsung phone under 200", rec.searches[0])
	require.Len(t, rec.prices, 1)
}

func TestSearch_TranslationFailureFallsBack(t *testing.T) {
	tr := &stubTranslator{err: errors.New("upstream down")}
	se := &stubSearcher{resp: providerResponse(
		provider.RawProduct{Title: "Redmi 13C", Price: "$90.00", URL: "https://x/13c"},
	)}
	h := newTestHandler(tr, se, &stubRecorder{})

	req := httptest.NewRequest("GET", "/search?query=redmi", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "redmi", resp.Translated)
	require.Len(t, resp.Results, 1)
}

func TestSearch_ZeroResultsSkipsHistory(t *testing.T) {
	rec := &stubRecorder{}
	h := newTestHandler(&stubTranslator{}, &stubSearcher{resp: providerResponse()}, rec)

	req := httptest.NewRequest("GET", "/search?query=nonexistent+gadget", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)

	assert.Empty(t, rec.searches)
	assert.Empty(t, rec.prices)
}

func TestSearch_ProviderFailureDegradesToEmpty(t *testing.T) {
	se := &stubSearcher{err: errors.New("rate limited")}
	h := newTestHandler(&stubTranslator{}, se, &stubRecorder{})

	req := httptest.NewRequest("GET", "/search?query=laptop", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)
}

func TestSearch_CompareMode(t *testing.T) {
	se := &stubSearcher{resp: providerResponse(
		provider.RawProduct{Title: "Generic Phone", Price: "$100.00", URL: "https://x/g"},
	)}
	rec := &stubRecorder{}
	h := newTestHandler(&stubTranslator{}, se, rec)

	req := httptest.NewRequest("GET", "/search?query=compare+iphone+15+vs+galaxy+s24", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp struct {
		Mode     string                 `json:"mode"`
		Product1 map[string]interface{} `json:"product_1"`
		Product2 map[string]interface{} `json:"product_2"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "compare", resp.Mode)
	assert.Equal(t, "Generic Phone", resp.Product1["title"])
	assert.Equal(t, "Generic Phone", resp.Product2["title"])

	require.Len(t, se.queries, 2)
	assert.Equal(t, "iphone 15", se.queries[0])
	assert.Equal(t, "galaxy s24", se.queries[1])

	// Compare mode never touches history.
	assert.Empty(t, rec.searches)
	assert.Empty(t, rec.prices)
}

func TestSearch_CompareEmptySideIsObject(t *testing.T) {
	h := newTestHandler(&stubTranslator{}, &stubSearcher{resp: providerResponse()}, &stubRecorder{})

	req := httptest.NewRequest("GET", "/search?query=compare+a+vs+b", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp struct {
		Product1 json.RawMessage `json:"product_1"`
		Product2 json.RawMessage `json:"product_2"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, `{}`, string(resp.Product1))
	assert.JSONEq(t, `{}`, string(resp.Product2))
}

func TestSearch_CacheHitSkipsProvider(t *testing.T) {
	se := &stubSearcher{resp: providerResponse(
		provider.RawProduct{Title: "Moto G84", Price: "$180.00", URL: "https://x/g84"},
	)}
	h := newTestHandler(&stubTranslator{}, se, &stubRecorder{})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/search?query=moto+g84", nil)
		w := httptest.NewRecorder()
		h.Search(w, req)
		require.Equal(t, 200, w.Code)
	}

	assert.Len(t, se.queries, 1, "second request should be served from cache")
}

func TestSearch_TruncatesToMaxResults(t *testing.T) {
	products := make([]provider.RawProduct, 5)
	for i := range products {
		products[i] = provider.RawProduct{
			Title: "Phone",
			Price: "$100.00",
			URL:   "https://x/p",
		}
	}

	h := NewSearchHandler(observability.Nop(), SearchHandlerConfig{
		Translator: &stubTranslator{},
		Searcher:   &stubSearcher{resp: providerResponse(products...)},
		Converter:  catalog.NewConverter(83, "₹"),
		History:    &stubRecorder{},
		MaxResults: 3,
	})

	req := httptest.NewRequest("GET", "/search?query=phone", nil)
	w := httptest.NewRecorder()
	h.Search(w, req)

	require.Equal(t, 200, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, 3)
}
