package market

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/poll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(coins []coingecko.CoinSummary) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}

func TestFilterCoins(t *testing.T) {
	coins := sampleCoins()

	tests := []struct {
		name     string
		search   string
		expected []string
	}{
		{"Empty search keeps order", "", []string{"bitcoin", "ethereum", "tether"}},
		{"Name substring", "coin", []string{"bitcoin"}},
		{"Symbol substring", "ET", []string{"ethereum"}},
		{"Case insensitive", "TeThEr", []string{"tether"}},
		{"Name or symbol", "t", []string{"bitcoin", "ethereum", "tether"}},
		{"No match", "doge", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(FilterCoins(coins, tt.search)))
		})
	}
}

func TestFilterCoinsDoesNotMutate(t *testing.T) {
	coins := sampleCoins()
	filtered := FilterCoins(coins, "")
	filtered[0].Name = "changed"
	assert.Equal(t, "Bitcoin", coins[0].Name)
}

func TestCoinPath(t *testing.T) {
	assert.Equal(t, "/coin/bitcoin", CoinPath("bitcoin"))
	assert.Equal(t, "/coin/a%2Fb", CoinPath("a/b"))
}

func TestListRefreshLifecycle(t *testing.T) {
	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{
			{err: errProvider},
			{value: sampleCoins()},
		},
	}
	list := NewListController(source)

	assert.Equal(t, poll.StatusIdle, list.View("").Status)

	err := list.Refresh(context.Background())
	require.ErrorIs(t, err, ErrListFetch)
	view := list.View("")
	assert.False(t, view.Loading)
	assert.Equal(t, poll.StatusFailed, view.Status)
	assert.ErrorIs(t, view.Err, ErrListFetch)
	assert.ErrorIs(t, view.Err, errProvider)

	require.NoError(t, list.Refresh(context.Background()))
	view = list.View("")
	assert.False(t, view.Loading)
	assert.Equal(t, poll.StatusReady, view.Status)
	assert.NoError(t, view.Err, "success clears the error")
	assert.Equal(t, 3, view.Total)
}

func TestListFailureKeepsLastList(t *testing.T) {
	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{
			{value: sampleCoins()},
			{err: errProvider},
		},
	}
	list := NewListController(source)

	require.NoError(t, list.Refresh(context.Background()))
	require.Error(t, list.Refresh(context.Background()))

	view := list.View("")
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, poll.StatusFailed, view.Status)
}

func TestListLastResolvedWins(t *testing.T) {
	first := []coingecko.CoinSummary{{ID: "first", Symbol: "one", Name: "First"}}
	second := []coingecko.CoinSummary{{ID: "second", Symbol: "two", Name: "Second"}}
	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})

	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{
			{value: first, release: releaseFirst},
			{value: second, release: releaseSecond},
		},
	}
	list := NewListController(source)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = list.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool { return source.marketCalls.Load() == 1 }, time.Second, time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = list.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool { return source.marketCalls.Load() == 2 }, time.Second, time.Millisecond)

	// The later request resolves first; the earlier, staler one resolves last.
	close(releaseSecond)
	require.Eventually(t, func() bool {
		return len(list.View("").Coins) == 1 && list.View("").Coins[0].ID == "second"
	}, time.Second, time.Millisecond)
	close(releaseFirst)
	wg.Wait()

	assert.Equal(t, []string{"first"}, ids(list.View("").Coins),
		"responses apply in resolution order, not request order")
}

func TestListObserversAndOnChange(t *testing.T) {
	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{{value: sampleCoins()}},
	}
	var changes atomic.Int32
	list := NewListController(source, WithOnChange(func() { changes.Add(1) }))

	var seen []coingecko.CoinSummary
	list.Observe(func(coins []coingecko.CoinSummary) { seen = coins })

	require.NoError(t, list.Refresh(context.Background()))
	assert.Len(t, seen, 3)
	assert.Equal(t, int32(1), changes.Load())
}

func TestListMountPollsUntilUnmount(t *testing.T) {
	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{{value: sampleCoins()}},
	}
	list := NewListController(source, WithInterval(10*time.Millisecond))

	list.Mount(context.Background())
	assert.True(t, list.Mounted())

	require.Eventually(t, func() bool { return source.marketCalls.Load() >= 3 }, time.Second, time.Millisecond)
	view := list.View("eth")
	assert.False(t, view.Loading)
	assert.Equal(t, []string{"ethereum"}, ids(view.Coins))

	list.Unmount()
	assert.False(t, list.Mounted())
	time.Sleep(20 * time.Millisecond)
	calls := source.marketCalls.Load()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, calls, source.marketCalls.Load())
}

func TestListMountEntersLoading(t *testing.T) {
	release := make(chan struct{})
	source := &fakeProvider{
		markets: []gatedResult[[]coingecko.CoinSummary]{{value: sampleCoins(), release: release}},
	}
	list := NewListController(source, WithInterval(time.Hour))

	list.Mount(context.Background())
	defer list.Unmount()

	view := list.View("")
	assert.True(t, view.Loading)
	assert.Equal(t, poll.StatusLoading, view.Status)

	close(release)
	require.Eventually(t, func() bool { return !list.View("").Loading }, time.Second, time.Millisecond)
	assert.Equal(t, 3, list.View("").Total)
}
