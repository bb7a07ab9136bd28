package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/SscSPs/exchange_service/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// Client reads fiat rates from ExchangeRate-API (GET {baseURL}/{key}/latest/{base}).
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

var _ providers.FiatRateProvider = (*Client)(nil)

type latestResponse struct {
	Result          string                     `json:"result"`
	ErrorType       string                     `json:"error-type"`
	BaseCode        string                     `json:"base_code"`
	ConversionRates map[string]decimal.Decimal `json:"conversion_rates"`
}

// LatestRate returns how many units of quote one unit of base buys.
func (c *Client) LatestRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	rates, err := c.LatestRates(ctx, base)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[quote]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate in response for base %q", quote, base)
	}
	return rate, nil
}

// LatestRates returns every conversion rate published for base.
func (c *Client) LatestRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(c.apiKey) + "/latest/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request for currency %q: %w", base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for currency %q: %s", resp.StatusCode, base, resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response for currency %q: %w", base, err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("api returned non-success result for currency %q: %s %s", base, body.Result, body.ErrorType)
	}
	return body.ConversionRates, nil
}
