// Package market holds the view controllers of the dashboard: the coin list,
// the coin detail and its price chart. Controllers own fetching, derived
// state and polling; rendering reads their View snapshots.
package market

import (
	"context"
	"io"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/sirupsen/logrus"
)

const DefaultPollInterval = 60 * time.Second

type MarketsFetcher interface {
	Markets(ctx context.Context) ([]coingecko.CoinSummary, error)
}

type CoinFetcher interface {
	Coin(ctx context.Context, id string) (*coingecko.CoinDetail, error)
}

type ChartFetcher interface {
	MarketChart(ctx context.Context, id string, days int) (coingecko.PriceSeries, error)
}

type options struct {
	interval time.Duration
	logger   *logrus.Logger
	location *time.Location
	onChange func()
}

type Option func(*options)

// WithInterval sets the polling period of list and detail controllers.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLocation sets the zone chart labels are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithOnChange registers a callback fired after every applied fetch result.
func WithOnChange(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

func buildOptions(opts []Option) options {
	o := options{
		interval: DefaultPollInterval,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
		o.logger.SetOutput(io.Discard)
	}
	return o
}

func (o options) changed() {
	if o.onChange != nil {
		o.onChange()
	}
}
