package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/cache"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/catalog"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/observability"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/provider"
	"github.com/GitSubham-00/shopgenius-ai-backend/internal/query"
)

// Translator translates free text into the working language.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// Searcher runs one product-search provider call.
type Searcher interface {
	Search(ctx context.Context, query string, page int) (*provider.SearchResponse, error)
}

// HistoryRecorder persists search and price observations.
type HistoryRecorder interface {
	SaveSearch(ctx context.Context, query string, products []catalog.ProductRecord) error
	SavePrices(ctx context.Context, products []catalog.ProductRecord) error
}

// Greeting tokens answered without touching any collaborator.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hii": true, "hola": true,
}

const greetingReply = "👋 Hello! How can I help you find products today?"

// SearchHandler sequences a search request: greeting check, translation,
// compare detection, provider search, normalization, currency conversion,
// history recording.
type SearchHandler struct {
	logger     *observability.Logger
	translator Translator
	searcher   Searcher
	cache      cache.Client
	cacheTTL   time.Duration
	converter  catalog.Converter
	history    HistoryRecorder
	maxResults int
}

// SearchHandlerConfig wires the search handler dependencies.
type SearchHandlerConfig struct {
	Translator Translator
	Searcher   Searcher
	Cache      cache.Client
	CacheTTL   time.Duration
	Converter  catalog.Converter
	History    HistoryRecorder
	MaxResults int
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(logger *observability.Logger, cfg SearchHandlerConfig) *SearchHandler {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	return &SearchHandler{
		logger:     logger,
		translator: cfg.Translator,
		searcher:   cfg.Searcher,
		cache:      cfg.Cache,
		cacheTTL:   cfg.CacheTTL,
		converter:  cfg.Converter,
		history:    cfg.History,
		maxResults: maxResults,
	}
}

// GreetingResponse answers a bare greeting.
type GreetingResponse struct {
	Mode  string `json:"mode"`
	Reply string `json:"reply"`
}

// CompareResponse carries the best match for each compared subject. A side
// with no results is an empty object, not null.
type CompareResponse struct {
	Mode     string      `json:"mode"`
	Product1 interface{} `json:"product_1"`
	Product2 interface{} `json:"product_2"`
}

// SearchResponse carries a normal search result.
type SearchResponse struct {
	Mode       string                  `json:"mode"`
	Query      string                  `json:"query"`
	Translated string                  `json:"translated"`
	Filters    query.Intent            `json:"filters"`
	Results    []catalog.ProductRecord `json:"results"`
}

// Search handles GET /search?query=<text>.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query().Get("query")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	h.logger.Info().Str("query", q).Msg("Incoming search query")

	// Greeting short-circuits everything: no translation, no provider call,
	// no persistence.
	if greetings[strings.ToLower(strings.TrimSpace(q))] {
		writeJSON(w, http.StatusOK, GreetingResponse{Mode: "greeting", Reply: greetingReply})
		return
	}

	// Translation is best-effort; the original text stands in on failure.
	translated, err := h.translator.Translate(ctx, q)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Translation failed, using original text")
		translated = q
	}

	if pair, ok := query.ExtractCompare(translated); ok {
		h.logger.Info().
			Str("subject_1", pair.Subject1).
			Str("subject_2", pair.Subject2).
			Msg("Compare mode detected")
		h.compare(ctx, w, pair)
		return
	}

	h.search(ctx, w, q, translated)
}

// compare runs one unfiltered search per subject and returns the best match
// for each. Compare mode never persists history.
func (h *SearchHandler) compare(ctx context.Context, w http.ResponseWriter, pair query.ComparePair) {
	raw1 := h.searchProducts(ctx, pair.Subject1)
	raw2 := h.searchProducts(ctx, pair.Subject2)

	best1 := firstOrEmpty(catalog.Normalize(raw1, catalog.Filters{}))
	best2 := firstOrEmpty(catalog.Normalize(raw2, catalog.Filters{}))

	writeJSON(w, http.StatusOK, CompareResponse{
		Mode:     "compare",
		Product1: best1,
		Product2: best2,
	})
}

func (h *SearchHandler) search(ctx context.Context, w http.ResponseWriter, original, translated string) {
	intent := query.Parse(translated)

	filters := catalog.Filters{PriceLimit: intent.PriceLimit}
	if intent.Brand != nil {
		filters.Brand = *intent.Brand
	}

	raw := h.searchProducts(ctx, intent.Keywords)
	results := catalog.Normalize(raw, filters)

	for i := range results {
		results[i].Price = h.converter.Convert(results[i].Price)
	}

	// History is a best-effort side effect, recorded only for non-empty
	// results and never allowed to fail the response.
	if len(results) > 0 {
		if err := h.history.SaveSearch(ctx, original, results); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to record search history")
		}
		if err := h.history.SavePrices(ctx, results); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to record price history")
		}
	}

	if len(results) > h.maxResults {
		results = results[:h.maxResults]
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Mode:       "search",
		Query:      original,
		Translated: translated,
		Filters:    intent,
		Results:    results,
	})
}

// searchProducts calls the provider through the response cache. Any provider
// or cache failure degrades to a nil response, which normalizes to an empty
// result set.
func (h *SearchHandler) searchProducts(ctx context.Context, q string) *provider.SearchResponse {
	key := searchCacheKey(q)

	if h.cache != nil {
		if b, err := h.cache.Get(ctx, key); err == nil {
			var sr provider.SearchResponse
			if json.Unmarshal(b, &sr) == nil {
				h.logger.Debug().Str("query", q).Msg("Provider cache hit")
				return &sr
			}
		}
	}

	sr, err := h.searcher.Search(ctx, q, 1)
	if err != nil {
		h.logger.Warn().Err(err).Str("query", q).Msg("Provider search failed")
		return nil
	}

	if h.cache != nil && sr != nil {
		if b, err := json.Marshal(sr); err == nil {
			if err := h.cache.Set(ctx, key, b, h.cacheTTL); err != nil {
				h.logger.Debug().Err(err).Msg("Provider cache write failed")
			}
		}
	}
	return sr
}

func searchCacheKey(q string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(q))))
	return "search:" + hex.EncodeToString(sum[:])
}

func firstOrEmpty(records []catalog.ProductRecord) interface{} {
	if len(records) == 0 {
		return struct{}{}
	}
	return records[0]
}
