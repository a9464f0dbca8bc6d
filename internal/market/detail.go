package market

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/htmltext"
	"github.com/navid-fn/coinboard/internal/poll"
	"github.com/sirupsen/logrus"
)

const DescriptionLimit = 500

var ErrDetailFetch = errors.New("detail fetch failed")

type DetailView struct {
	CoinID      string
	Status      poll.Status
	Loading     bool
	Err         error
	Coin        *coingecko.CoinDetail
	Description string
}

// NotFound reports a settled or idle view with nothing to show.
func (v DetailView) NotFound() bool {
	return !v.Loading && v.Err == nil && v.Coin == nil
}

// DetailController polls one coin's metadata. Each result is shallow-merged
// into the previous one so a refresh never blanks the screen.
type DetailController struct {
	source CoinFetcher
	coinID string
	opts   options
	logger *logrus.Entry
	poller *poll.Poller

	mu   sync.RWMutex
	coin *coingecko.CoinDetail
	life poll.Lifecycle
}

func NewDetailController(source CoinFetcher, coinID string, opts ...Option) *DetailController {
	o := buildOptions(opts)
	c := &DetailController{
		source: source,
		coinID: coinID,
		opts:   o,
		logger: o.logger.WithFields(logrus.Fields{"component": "detail", "coin": coinID}),
	}
	c.poller = poll.New(o.interval, func(ctx context.Context) {
		_ = c.Refresh(ctx)
	}, c.logger)
	return c
}

func (c *DetailController) CoinID() string { return c.coinID }

// Mount starts polling. Without a coin id nothing is fetched.
func (c *DetailController) Mount(ctx context.Context) {
	if c.coinID == "" {
		return
	}
	c.mu.Lock()
	c.life.Begin()
	c.mu.Unlock()
	c.poller.Start(ctx)
}

func (c *DetailController) Unmount() {
	c.poller.Stop()
}

func (c *DetailController) Mounted() bool {
	return c.poller.Running()
}

func (c *DetailController) Refresh(ctx context.Context) error {
	if c.coinID == "" {
		return nil
	}

	c.mu.Lock()
	c.life.Begin()
	c.mu.Unlock()

	detail, err := c.source.Coin(ctx, c.coinID)

	c.mu.Lock()
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrDetailFetch, err)
		c.life.Fail(err)
		c.mu.Unlock()

		c.logger.Errorf("Failed to fetch coin details: %v", err)
		c.opts.changed()
		return err
	}

	c.coin = MergeDetail(c.coin, detail)
	c.life.Succeed()
	c.mu.Unlock()

	c.opts.changed()
	return nil
}

// View returns the current state with the description resolved for lang.
func (c *DetailController) View(lang string) DetailView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := DetailView{
		CoinID:  c.coinID,
		Status:  c.life.Status(),
		Loading: c.life.Loading(),
		Err:     c.life.Err(),
		Coin:    c.coin,
	}
	if c.coin != nil {
		view.Description = LocalizedDescription(c.coin.Description, lang)
	}
	return view
}

// MergeDetail overlays the populated top-level fields of next onto prev.
// Neither argument is modified.
func MergeDetail(prev, next *coingecko.CoinDetail) *coingecko.CoinDetail {
	if prev == nil {
		return next
	}
	if next == nil {
		return prev
	}

	merged := *prev
	if next.ID != "" {
		merged.ID = next.ID
	}
	if next.Name != "" {
		merged.Name = next.Name
	}
	if next.Symbol != "" {
		merged.Symbol = next.Symbol
	}
	if next.Image != (coingecko.Image{}) {
		merged.Image = next.Image
	}
	if next.Description != nil {
		merged.Description = next.Description
	}
	if next.MarketData != nil {
		merged.MarketData = next.MarketData
	}
	return &merged
}

// LocalizedDescription picks the entry for lang, falling back to English,
// strips markup and cuts it to DescriptionLimit characters.
func LocalizedDescription(descriptions map[string]string, lang string) string {
	text := descriptions[lang]
	if text == "" {
		text = descriptions["en"]
	}
	return htmltext.Truncate(htmltext.Strip(text), DescriptionLimit)
}
