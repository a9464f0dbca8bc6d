package shell

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultIdle = 15 * time.Minute

// Registry holds the open screens keyed by their session id.
type Registry struct {
	cfg    Config
	logger *logrus.Entry
	now    func() time.Time

	mu      sync.Mutex
	screens map[string]*Screen
}

func NewRegistry(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		cfg:     cfg,
		logger:  logger.WithField("component", "screens"),
		now:     time.Now,
		screens: make(map[string]*Screen),
	}
}

// Open creates a screen with a fresh id.
func (r *Registry) Open() *Screen {
	screen := newScreen(uuid.NewString(), r.cfg, r.now())

	r.mu.Lock()
	r.screens[screen.id] = screen
	r.mu.Unlock()

	r.logger.WithField("screen", screen.id).Debug("screen opened")
	return screen
}

// Get returns the screen for id and marks it as seen.
func (r *Registry) Get(id string) (*Screen, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	r.mu.Lock()
	screen, ok := r.screens[id]
	r.mu.Unlock()

	if ok {
		screen.touch(r.now())
	}
	return screen, ok
}

// GetOrOpen returns the screen for id, opening a new one when it is unknown.
func (r *Registry) GetOrOpen(id string) *Screen {
	if screen, ok := r.Get(id); ok {
		return screen
	}
	return r.Open()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

// Reap closes screens unseen for longer than maxIdle. Screens with a live
// subscriber are kept.
func (r *Registry) Reap(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	var stale []*Screen
	r.mu.Lock()
	for id, screen := range r.screens {
		if screen.subscribers() == 0 && screen.idleSince().Before(cutoff) {
			stale = append(stale, screen)
			delete(r.screens, id)
		}
	}
	r.mu.Unlock()

	for _, screen := range stale {
		screen.Close()
	}
	if len(stale) > 0 {
		r.logger.Infof("Closed %d idle screens", len(stale))
	}
	return len(stale)
}

// Run reaps idle screens until ctx is done.
func (r *Registry) Run(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		maxIdle = DefaultIdle
	}
	ticker := time.NewTicker(max(maxIdle/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap(maxIdle)
		}
	}
}

// Close closes every screen.
func (r *Registry) Close() {
	r.mu.Lock()
	screens := r.screens
	r.screens = make(map[string]*Screen)
	r.mu.Unlock()

	for _, screen := range screens {
		screen.Close()
	}
}
