package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/exchange_service/internal/core/ports/providers"
	"github.com/dgraph-io/ristretto"
	"github.com/shopspring/decimal"
)

// RateCache is a bounded TTL cache for provider rates, keyed by pair.
type RateCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewRateCache creates a cache holding up to maxItems rates for ttl each.
// A zero ttl keeps entries until they are evicted.
func NewRateCache(maxItems int64, ttl time.Duration) (*RateCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache failed: %w", err)
	}
	return &RateCache{cache: c, ttl: ttl}, nil
}

func (c *RateCache) get(key string) (decimal.Decimal, bool) {
	if v, ok := c.cache.Get(key); ok {
		rate, ok := v.(decimal.Decimal)
		return rate, ok
	}
	return decimal.Zero, false
}

func (c *RateCache) set(key string, rate decimal.Decimal) {
	c.cache.SetWithTTL(key, rate, 1, c.ttl)
}

// Invalidate drops a cached fiat pair or, with base "XAU", a gold price.
func (c *RateCache) Invalidate(base, quote string) {
	c.cache.Del(toKey(base, quote))
}

// Wait blocks until buffered writes are visible to readers.
func (c *RateCache) Wait() { c.cache.Wait() }

func (c *RateCache) Close() { c.cache.Close() }

func toKey(base, quote string) string { return base + ":" + quote }

// goldBase is the cache key prefix for troy-ounce gold prices.
const goldBase = "XAU"

// CachedFiatRates serves fiat rates from the cache and falls back to the provider.
type CachedFiatRates struct {
	next  providers.FiatRateProvider
	cache *RateCache
}

func NewCachedFiatRates(next providers.FiatRateProvider, cache *RateCache) *CachedFiatRates {
	return &CachedFiatRates{next: next, cache: cache}
}

var _ providers.FiatRateProvider = (*CachedFiatRates)(nil)

func (c *CachedFiatRates) LatestRate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	if rate, ok := c.cache.get(toKey(base, quote)); ok {
		return rate, nil
	}
	return c.Refresh(ctx, base, quote)
}

// Refresh fetches the pair from the provider and stores it.
func (c *CachedFiatRates) Refresh(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	rate, err := c.next.LatestRate(ctx, base, quote)
	if err != nil {
		return decimal.Zero, err
	}
	c.cache.set(toKey(base, quote), rate)
	return rate, nil
}

// CachedGoldPrices serves troy-ounce gold prices from the cache and falls back to the provider.
type CachedGoldPrices struct {
	next  providers.GoldPriceProvider
	cache *RateCache
}

func NewCachedGoldPrices(next providers.GoldPriceProvider, cache *RateCache) *CachedGoldPrices {
	return &CachedGoldPrices{next: next, cache: cache}
}

var _ providers.GoldPriceProvider = (*CachedGoldPrices)(nil)

func (c *CachedGoldPrices) OuncePrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	if price, ok := c.cache.get(toKey(goldBase, currency)); ok {
		return price, nil
	}
	return c.Refresh(ctx, currency)
}

// Refresh fetches the price from the provider and stores it.
func (c *CachedGoldPrices) Refresh(ctx context.Context, currency string) (decimal.Decimal, error) {
	price, err := c.next.OuncePrice(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}
	c.cache.set(toKey(goldBase, currency), price)
	return price, nil
}
