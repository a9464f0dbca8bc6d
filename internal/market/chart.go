package market

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/sirupsen/logrus"
)

const DefaultWindow = 7

var (
	Windows = []int{1, 7, 30, 90, 365}

	ErrInvalidWindow = errors.New("invalid chart window")
)

func ValidWindow(days int) bool {
	return slices.Contains(Windows, days)
}

type ChartView struct {
	Ready   bool
	Days    int
	Windows []int
	Labels  []string
	Prices  []float64
}

// ChartController loads the price history of one coin for the selected
// window. It fetches on mount and whenever the window changes; it does not
// poll. Results apply in completion order, and a failed fetch keeps the
// previous series.
type ChartController struct {
	source ChartFetcher
	coinID string
	opts   options
	logger *logrus.Entry

	mu         sync.RWMutex
	days       int
	mounted    bool
	ctx        context.Context
	series     coingecko.PriceSeries
	seriesDays int
	ready      bool
}

func NewChartController(source ChartFetcher, coinID string, opts ...Option) *ChartController {
	o := buildOptions(opts)
	return &ChartController{
		source: source,
		coinID: coinID,
		opts:   o,
		logger: o.logger.WithFields(logrus.Fields{"component": "chart", "coin": coinID}),
		days:   DefaultWindow,
	}
}

func (c *ChartController) Days() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.days
}

// Mount fetches the current window in the background.
func (c *ChartController) Mount(ctx context.Context) {
	if c.coinID == "" {
		return
	}
	fetchCtx := context.WithoutCancel(ctx)
	c.mu.Lock()
	c.mounted = true
	c.ctx = fetchCtx
	c.mu.Unlock()

	go c.Refresh(fetchCtx)
}

func (c *ChartController) Unmount() {
	c.mu.Lock()
	c.mounted = false
	c.mu.Unlock()
}

// Select switches the window. A change on a mounted controller starts a
// background fetch for the new window.
func (c *ChartController) Select(days int) (bool, error) {
	if !ValidWindow(days) {
		return false, fmt.Errorf("%w: %d", ErrInvalidWindow, days)
	}

	c.mu.Lock()
	if c.days == days {
		c.mu.Unlock()
		return false, nil
	}
	c.days = days
	mounted, ctx := c.mounted, c.ctx
	c.mu.Unlock()

	if mounted {
		go c.Refresh(ctx)
	}
	return true, nil
}

// Refresh fetches the selected window and replaces the series on success.
func (c *ChartController) Refresh(ctx context.Context) error {
	c.mu.RLock()
	days := c.days
	c.mu.RUnlock()

	series, err := c.source.MarketChart(ctx, c.coinID, days)
	if err != nil {
		c.logger.Errorf("Failed to fetch chart data: %v", err)
		return err
	}

	c.mu.Lock()
	c.series = series
	c.seriesDays = days
	c.ready = true
	c.mu.Unlock()

	c.opts.changed()
	return nil
}

func (c *ChartController) View() ChartView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := ChartView{
		Ready:   c.ready,
		Days:    c.days,
		Windows: Windows,
	}
	if !c.ready {
		return view
	}

	view.Labels = make([]string, len(c.series))
	view.Prices = make([]float64, len(c.series))
	for i, point := range c.series {
		view.Labels[i] = FormatLabel(point.Time, c.seriesDays, c.opts.location)
		view.Prices[i] = point.Price
	}
	return view
}

// FormatLabel renders a sample time as hour:minute for the one-day window
// and as day/month otherwise.
func FormatLabel(t time.Time, days int, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	if days == 1 {
		return t.Format("15:04")
	}
	return t.Format("02/01")
}
