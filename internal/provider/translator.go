package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translator translates free text into the working language. The source
// language is always auto-detected.
type Translator struct {
	endpoint   string
	target     string
	httpClient *http.Client
}

// TranslatorConfig holds translation client settings.
type TranslatorConfig struct {
	Endpoint string
	Target   string
	Timeout  time.Duration
}

// NewTranslator creates a translation client.
func NewTranslator(cfg TranslatorConfig) *Translator {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	target := cfg.Target
	if target == "" {
		target = "en"
	}
	return &Translator{
		endpoint: cfg.Endpoint,
		target:   target,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Translate returns the text translated to the target language. The endpoint
// answers with nested arrays; the first element of each segment is the
// translated sentence.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", t.target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translator returned status %d: %s", resp.StatusCode, body)
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode translate segments: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(seg[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	translated := sb.String()
	if translated == "" {
		return "", fmt.Errorf("translator returned no text")
	}
	return translated, nil
}
