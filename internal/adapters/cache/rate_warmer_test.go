package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/exchange_service/internal/adapters/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseWarmPairs(t *testing.T) {
	pairs, err := cache.ParseWarmPairs([]string{"usd/try", " XAU/TRY "})
	require.NoError(t, err)
	assert.Equal(t, []cache.WarmPair{{Base: "USD", Quote: "TRY"}, {Base: "XAU", Quote: "TRY"}}, pairs)

	for _, bad := range []string{"USDTRY", "US/TRY", "TRY/TRY", "/"} {
		_, err := cache.ParseWarmPairs([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestWarmer_WarmOnce_RefreshesEveryPair(t *testing.T) {
	ctx := context.Background()
	fiat := new(MockFiatRateProvider)
	fiat.On("LatestRate", ctx, "USD", "TRY").Return(decimal.RequireFromString("32"), nil).Once()
	fiat.On("LatestRate", ctx, "EUR", "TRY").Return(decimal.Zero, errors.New("provider down")).Once()
	gold := new(MockGoldPriceProvider)
	gold.On("OuncePrice", ctx, "TRY").Return(decimal.RequireFromString("77758.692"), nil).Once()

	c := newCache(t, time.Minute)
	fiatRates := cache.NewCachedFiatRates(fiat, c)
	goldPrices := cache.NewCachedGoldPrices(gold, c)
	pairs := []cache.WarmPair{{Base: "USD", Quote: "TRY"}, {Base: "EUR", Quote: "TRY"}, {Base: "XAU", Quote: "TRY"}}

	w := cache.NewWarmer(fiatRates, goldPrices, pairs, time.Minute, nil)
	assert.Equal(t, 2, w.WarmOnce(ctx))
	c.Wait()

	// Warmed entries are served without another provider call.
	_, err := fiatRates.LatestRate(ctx, "USD", "TRY")
	require.NoError(t, err)
	_, err = goldPrices.OuncePrice(ctx, "TRY")
	require.NoError(t, err)

	fiat.AssertExpectations(t)
	gold.AssertExpectations(t)
}

func TestWarmer_DisabledWithoutInterval(t *testing.T) {
	c := newCache(t, time.Minute)
	w := cache.NewWarmer(cache.NewCachedFiatRates(new(MockFiatRateProvider), c), cache.NewCachedGoldPrices(new(MockGoldPriceProvider), c),
		[]cache.WarmPair{{Base: "USD", Quote: "TRY"}}, 0, nil)

	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.Running())
	require.NoError(t, w.Shutdown())
}

func TestWarmer_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	fiat := new(MockFiatRateProvider)
	fiat.On("LatestRate", mock.Anything, "USD", "TRY").Return(decimal.RequireFromString("32"), nil).Maybe()

	c := newCache(t, time.Minute)
	w := cache.NewWarmer(cache.NewCachedFiatRates(fiat, c), cache.NewCachedGoldPrices(new(MockGoldPriceProvider), c),
		[]cache.WarmPair{{Base: "USD", Quote: "TRY"}}, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.Running())

	cancel()
	assert.Eventually(t, func() bool { return !w.Running() }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, w.Shutdown(), "second shutdown is a no-op")
}
