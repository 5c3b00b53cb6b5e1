// Package provider contains clients for the external collaborators: the
// product-search API and the translation service. Both are opaque network
// dependencies; callers are expected to degrade gracefully when they fail.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchResponse is the raw product-search payload. Fields the provider omits
// simply stay zero; the normalizer tolerates any shape.
type SearchResponse struct {
	Status string     `json:"status"`
	Data   SearchData `json:"data"`
}

// SearchData wraps the product list.
type SearchData struct {
	Products []RawProduct `json:"products"`
}

// RawProduct is a single provider item before normalization.
type RawProduct struct {
	Title string `json:"product_title"`
	Price string `json:"product_price"`
	URL   string `json:"product_url"`
	Photo string `json:"product_photo"`
}

// SearchClient queries the RapidAPI product-search endpoint.
type SearchClient struct {
	apiKey     string
	apiHost    string
	baseURL    string
	httpClient *http.Client
}

// SearchConfig holds product-search client settings. APIHost may be a bare
// host (https assumed) or a full URL, which tests use to point at a local
// server.
type SearchConfig struct {
	APIKey  string
	APIHost string
	Timeout time.Duration
}

// NewSearchClient creates a product-search client.
func NewSearchClient(cfg SearchConfig) *SearchClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	base := cfg.APIHost
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	return &SearchClient{
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		baseURL: strings.TrimSuffix(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search runs one provider search for the given query and page.
func (c *SearchClient) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search provider returned status %d: %s", resp.StatusCode, body)
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &sr, nil
}
