// Package shell keeps one active view per browser screen. A screen shows
// either the coin list or a coin detail with its chart; switching tears the
// previous view down before the next one mounts.
package shell

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/navid-fn/coinboard/internal/coingecko"
	"github.com/navid-fn/coinboard/internal/market"
	"github.com/sirupsen/logrus"
)

// Provider is everything the views fetch from.
type Provider interface {
	market.MarketsFetcher
	market.CoinFetcher
	market.ChartFetcher
}

type Config struct {
	Source   Provider
	Interval time.Duration
	Location *time.Location
	Logger   *logrus.Logger
	// OnMarkets receives every list a screen fetched successfully.
	OnMarkets func([]coingecko.CoinSummary)
}

type Screen struct {
	id     string
	cfg    Config
	logger *logrus.Entry

	mu       sync.Mutex
	route    Route
	active   bool
	closed   bool
	list     *market.ListController
	detail   *market.DetailController
	chart    *market.ChartController
	lastSeen time.Time

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextID  int
	version atomic.Uint64
}

func newScreen(id string, cfg Config, now time.Time) *Screen {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Screen{
		id:       id,
		cfg:      cfg,
		logger:   logger.WithField("screen", id),
		lastSeen: now,
		subs:     make(map[int]chan struct{}),
	}
}

func (s *Screen) ID() string { return s.id }

func (s *Screen) options() []market.Option {
	return []market.Option{
		market.WithInterval(s.cfg.Interval),
		market.WithLocation(s.cfg.Location),
		market.WithLogger(s.cfg.Logger),
		market.WithOnChange(s.notify),
	}
}

// ShowList makes the list the active view. If it already is, the running
// controller is kept. ctx only carries values; the view lives until the
// screen switches or closes.
func (s *Screen) ShowList(ctx context.Context) *market.ListController {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	if s.active && s.route.Kind == KindList {
		return s.list
	}

	s.unmountLocked()

	list := market.NewListController(s.cfg.Source, s.options()...)
	if s.cfg.OnMarkets != nil {
		list.Observe(s.cfg.OnMarkets)
	}
	list.Mount(context.WithoutCancel(ctx))

	s.list = list
	s.route = ListRoute()
	s.active = true
	s.logger.Debug("list view mounted")

	s.notify()
	return list
}

// ShowCoin makes the detail of id the active view. A non-zero days selects
// the chart window; an invalid window is reported after the view is shown.
func (s *Screen) ShowCoin(ctx context.Context, id string, days int) (*market.DetailController, *market.ChartController, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, nil
	}

	if !(s.active && s.route.Kind == KindCoin && s.route.CoinID == id) {
		s.unmountLocked()

		s.detail = market.NewDetailController(s.cfg.Source, id, s.options()...)
		s.chart = market.NewChartController(s.cfg.Source, id, s.options()...)
		if days != 0 && market.ValidWindow(days) {
			_, _ = s.chart.Select(days)
		}

		fetchCtx := context.WithoutCancel(ctx)
		s.detail.Mount(fetchCtx)
		s.chart.Mount(fetchCtx)

		s.route = CoinRoute(id)
		s.active = true
		s.logger.WithField("coin", id).Debug("detail view mounted")
		s.notify()
	}

	if days == 0 {
		return s.detail, s.chart, nil
	}
	_, err := s.chart.Select(days)
	return s.detail, s.chart, err
}

func (s *Screen) unmountLocked() {
	if s.list != nil {
		s.list.Unmount()
		s.list = nil
	}
	if s.detail != nil {
		s.detail.Unmount()
		s.detail = nil
	}
	if s.chart != nil {
		s.chart.Unmount()
		s.chart = nil
	}
	s.active = false
}

// Active reports the current route and whether any view is mounted.
func (s *Screen) Active() (Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route, s.active
}

// Shows reports whether route is the mounted view.
func (s *Screen) Shows(route Route) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active && s.route == route
}

func (s *Screen) List() *market.ListController {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list
}

func (s *Screen) Detail() *market.DetailController {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

func (s *Screen) Chart() *market.ChartController {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart
}

// Subscribe returns a channel signalled whenever the active view changes and
// a function that releases it. Signals coalesce.
func (s *Screen) Subscribe() (<-chan struct{}, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	ch := make(chan struct{}, 1)
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

func (s *Screen) subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// Version counts changes of the active view. A page rendered at version v is
// stale once Version() differs from v.
func (s *Screen) Version() uint64 {
	return s.version.Load()
}

func (s *Screen) notify() {
	s.version.Add(1)

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Screen) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Screen) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close unmounts the active view and releases every subscriber.
func (s *Screen) Close() {
	s.mu.Lock()
	s.unmountLocked()
	s.closed = true
	s.mu.Unlock()

	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()
}
