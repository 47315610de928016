// Package client talks to the metalpriceapi-compatible spot price API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/halaltools/amanah/internal/config"
	"github.com/halaltools/amanah/internal/rates/domain"
)

const fetchTimeout = 10 * time.Second

type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	baseCurrency string
}

func New(cfg config.Config) domain.Client {
	return &Client{
		httpClient:   &http.Client{Timeout: fetchTimeout},
		baseURL:      strings.TrimRight(cfg.MetalPriceBaseURL, "/"),
		apiKey:       cfg.MetalPriceAPIKey,
		baseCurrency: cfg.BaseCurrency,
	}
}

type latestResponse struct {
	Success bool               `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

// FetchLatest returns per-ounce gold and silver quotes in the base currency.
func (c *Client) FetchLatest(ctx context.Context) (*domain.Quote, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("base", c.baseCurrency)
	query.Set("currencies", "XAU,XAG")

	endpoint := c.baseURL + "/latest?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstream, resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrUpstream, err)
	}

	// Quote keys concatenate base and symbol, e.g. PKRXAU.
	gold := body.Rates[c.baseCurrency+"XAU"]
	silver := body.Rates[c.baseCurrency+"XAG"]
	if gold <= 0 || silver <= 0 {
		return nil, fmt.Errorf("%w: missing metal rates", domain.ErrUpstream)
	}

	return &domain.Quote{GoldPerOunce: gold, SilverPerOunce: silver}, nil
}
