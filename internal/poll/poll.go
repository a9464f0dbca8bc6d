// Package poll runs a fetch function on a fixed interval for as long as a view is mounted.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Func performs one fetch. It runs on its own goroutine.
type Func func(ctx context.Context)

// Poller is a scoped repeating timer: Start acquires it, Stop releases it.
//
// Every tick launches fn without waiting for the previous one, so slow
// fetches overlap and settle in completion order. fn receives a context that
// Stop does not cancel; only the timer is torn down.
type Poller struct {
	interval time.Duration
	fn       Func
	logger   *logrus.Entry

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(interval time.Duration, fn Func, logger *logrus.Entry) *Poller {
	return &Poller{
		interval: interval,
		fn:       fn,
		logger:   logger,
	}
}

// Start fires fn immediately and then every interval. Starting a running
// poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(loopCtx, context.WithoutCancel(ctx), p.done)
}

func (p *Poller) run(loopCtx, fetchCtx context.Context, done chan struct{}) {
	defer close(done)

	p.logger.WithField("interval", p.interval).Debug("poller started")
	go p.fn(fetchCtx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			p.logger.Debug("poller stopped")
			return
		case <-ticker.C:
			go p.fn(fetchCtx)
		}
	}
}

// Stop cancels the timer and waits for the loop to exit. It is idempotent
// and safe to defer on every exit path.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
