package market

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/poll"
	"github.com/sirupsen/logrus"
)

var ErrListFetch = errors.New("list fetch failed")

// ListView is a render-ready snapshot of the list screen.
type ListView struct {
	Status  poll.Status
	Loading bool
	Err     error
	Search  string
	Coins   []coingecko.CoinSummary
	Total   int
}

// ListController polls the top coins and serves filtered views of the last
// list that resolved. Overlapping polls are applied in completion order.
type ListController struct {
	source MarketsFetcher
	opts   options
	logger *logrus.Entry
	poller *poll.Poller

	mu        sync.RWMutex
	coins     []coingecko.CoinSummary
	life      poll.Lifecycle
	observers []func([]coingecko.CoinSummary)
}

func NewListController(source MarketsFetcher, opts ...Option) *ListController {
	o := buildOptions(opts)
	c := &ListController{
		source: source,
		opts:   o,
		logger: o.logger.WithField("component", "list"),
	}
	c.poller = poll.New(o.interval, func(ctx context.Context) {
		_ = c.Refresh(ctx)
	}, c.logger)
	return c
}

// Observe registers fn to receive every successfully fetched list.
func (c *ListController) Observe(fn func([]coingecko.CoinSummary)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Mount enters the loading state and starts polling.
func (c *ListController) Mount(ctx context.Context) {
	c.mu.Lock()
	c.life.Begin()
	c.mu.Unlock()
	c.poller.Start(ctx)
}

// Unmount stops the timer. A fetch already in flight still settles.
func (c *ListController) Unmount() {
	c.poller.Stop()
}

func (c *ListController) Mounted() bool {
	return c.poller.Running()
}

// Refresh performs one fetch and applies its outcome. Success replaces the
// whole list and clears the error; failure keeps the last list.
func (c *ListController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.life.Begin()
	c.mu.Unlock()

	coins, err := c.source.Markets(ctx)

	c.mu.Lock()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrListFetch, err)
		c.life.Fail(err)
		c.mu.Unlock()

		c.logger.Errorf("Failed to fetch currency data: %v", err)
		c.opts.changed()
		return err
	}

	c.coins = coins
	c.life.Succeed()
	observers := append([]func([]coingecko.CoinSummary){}, c.observers...)
	c.mu.Unlock()

	c.logger.Debugf("Applied list of %d coins", len(coins))
	for _, fn := range observers {
		fn(coins)
	}
	c.opts.changed()
	return nil
}

// View returns the current state with the list narrowed by search.
func (c *ListController) View(search string) ListView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return ListView{
		Status:  c.life.Status(),
		Loading: c.life.Loading(),
		Err:     c.life.Err(),
		Search:  search,
		Coins:   FilterCoins(c.coins, search),
		Total:   len(c.coins),
	}
}

// FilterCoins keeps coins whose name or symbol contains search, ignoring
// case. Order is preserved and the input is never modified.
func FilterCoins(coins []coingecko.CoinSummary, search string) []coingecko.CoinSummary {
	needle := strings.ToLower(search)
	out := make([]coingecko.CoinSummary, 0, len(coins))
	for _, coin := range coins {
		if needle == "" ||
			strings.Contains(strings.ToLower(coin.Name), needle) ||
			strings.Contains(strings.ToLower(coin.Symbol), needle) {
			out = append(out, coin)
		}
	}
	return out
}

// CoinPath is the detail route of a coin.
func CoinPath(id string) string {
	return "/coin/" + url.PathEscape(id)
}
