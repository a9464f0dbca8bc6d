package market

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/navid-fn/coinboard/internal/coingecko"
)

var errProvider = errors.New("provider unavailable")

// gatedResult is one scripted provider answer, optionally held until released.
type gatedResult[T any] struct {
	value   T
	err     error
	release chan struct{}
}

type fakeProvider struct {
	mu      sync.Mutex
	markets []gatedResult[[]coingecko.CoinSummary]
	coins   []gatedResult[*coingecko.CoinDetail]
	charts  []gatedResult[coingecko.PriceSeries]

	marketCalls atomic.Int32
	coinCalls   atomic.Int32
	chartCalls  atomic.Int32
	chartDays   []int
}

func next[T any](mu *sync.Mutex, queue *[]gatedResult[T]) gatedResult[T] {
	mu.Lock()
	defer mu.Unlock()
	if len(*queue) == 0 {
		var zero gatedResult[T]
		zero.err = errProvider
		return zero
	}
	r := (*queue)[0]
	if len(*queue) > 1 {
		*queue = (*queue)[1:]
	}
	return r
}

func wait[T any](ctx context.Context, r gatedResult[T]) (T, error) {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	return r.value, r.err
}

func (f *fakeProvider) Markets(ctx context.Context) ([]coingecko.CoinSummary, error) {
	f.marketCalls.Add(1)
	return wait(ctx, next(&f.mu, &f.markets))
}

func (f *fakeProvider) Coin(ctx context.Context, id string) (*coingecko.CoinDetail, error) {
	f.coinCalls.Add(1)
	return wait(ctx, next(&f.mu, &f.coins))
}

func (f *fakeProvider) MarketChart(ctx context.Context, id string, days int) (coingecko.PriceSeries, error) {
	f.chartCalls.Add(1)
	f.mu.Lock()
	f.chartDays = append(f.chartDays, days)
	f.mu.Unlock()
	return wait(ctx, next(&f.mu, &f.charts))
}

func sampleCoins() []coingecko.CoinSummary {
	return []coingecko.CoinSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 64000, PriceChangePercentage24h: 1.2},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3100, PriceChangePercentage24h: -0.4},
		{ID: "tether", Symbol: "usdt", Name: "Tether", CurrentPrice: 1, PriceChangePercentage24h: 0},
	}
}
