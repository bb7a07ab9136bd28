package apilayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/exchange_service/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// goldSymbol is the ISO 4217 code for one troy ounce of gold.
const goldSymbol = "XAU"

// Client reads troy-ounce gold prices from the APILayer exchange rates API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

var _ providers.GoldPriceProvider = (*Client)(nil)

type latestResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
		Info    string `json:"info"`
	} `json:"error,omitempty"`
}

// OuncePrice returns the price of one troy ounce of gold in currency.
func (c *Client) OuncePrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("base", goldSymbol)
	q.Set("symbols", currency)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request for %s/%s: %w", goldSymbol, currency, err)
	}
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request for %s/%s: %w", goldSymbol, currency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("unexpected status %d for %s/%s: %s", resp.StatusCode, goldSymbol, currency, resp.Status)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode response for %s/%s: %w", goldSymbol, currency, err)
	}
	if !body.Success {
		msg := "unknown error"
		if body.Error != nil {
			msg = body.Error.Message + body.Error.Info
		}
		return decimal.Zero, fmt.Errorf("api returned non-success result for %s/%s: %s", goldSymbol, currency, msg)
	}

	price, ok := body.Rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s price in response", currency)
	}
	return price, nil
}
