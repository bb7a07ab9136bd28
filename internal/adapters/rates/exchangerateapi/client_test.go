package exchangerateapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/exchange_service/internal/adapters/rates/exchangerateapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.Path
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LatestRate_Success(t *testing.T) {
	var gotPath string
	srv := newServer(t, http.StatusOK, `{
		"result": "success",
		"base_code": "USD",
		"conversion_rates": {"TRY": 32.4512, "EUR": 0.92}
	}`, &gotPath)

	c := exchangerateapi.NewClient(srv.Client(), srv.URL+"/v6/", "secret")

	rate, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.NoError(t, err)
	assert.Equal(t, "/v6/secret/latest/USD", gotPath)
	assert.True(t, decimal.RequireFromString("32.4512").Equal(rate), "got %s", rate)
}

func TestClient_LatestRate_MissingQuote(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"result":"success","conversion_rates":{"EUR":0.92}}`, nil)
	c := exchangerateapi.NewClient(srv.Client(), srv.URL, "k")

	_, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no TRY rate")
}

func TestClient_LatestRate_StatusCodeError(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, `nope`, nil)
	c := exchangerateapi.NewClient(srv.Client(), srv.URL, "k")

	_, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestClient_LatestRate_NonSuccessResult(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"result":"error","error-type":"invalid-key"}`, nil)
	c := exchangerateapi.NewClient(srv.Client(), srv.URL, "k")

	_, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-key")
}

func TestClient_LatestRate_DecodeError(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{`, nil)
	c := exchangerateapi.NewClient(srv.Client(), srv.URL, "k")

	_, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to decode response for currency "USD"`)
}

func TestClient_LatestRate_BadBaseURL(t *testing.T) {
	c := exchangerateapi.NewClient(http.DefaultClient, "://bad", "k")

	_, err := c.LatestRate(context.Background(), "USD", "TRY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse base URL")
}
