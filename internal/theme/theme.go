// Package theme owns the light/dark preference. Toggle is the only mutator.
package theme

import (
	"fmt"
	"sync"

	"github.com/navid-fn/coinboard/internal/prefs"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"

	Default = Dark

	// PrefKey is the preference entry the theme is persisted under.
	PrefKey = "theme"
	// AttributeName is the document-root attribute styles key off.
	AttributeName = "data-theme"
)

func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type Store struct {
	mu      sync.RWMutex
	current Theme
	prefs   prefs.Store
}

// New reads the persisted theme, defaulting to dark when absent or unrecognised.
func New(p prefs.Store) *Store {
	current := Default
	if v, ok := p.Get(PrefKey); ok && Theme(v).Valid() {
		current = Theme(v)
	}
	return &Store{current: current, prefs: p}
}

func (s *Store) Current() Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Toggle flips the theme and persists it. On a persistence error the
// in-memory value is left unchanged so both stay equal.
func (s *Store) Toggle() (Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Opposite()
	if err := s.prefs.Set(PrefKey, string(next)); err != nil {
		return s.current, fmt.Errorf("persist theme: %w", err)
	}
	s.current = next
	return next, nil
}

// Attribute is the value rendered into the AttributeName attribute.
func (s *Store) Attribute() string {
	return string(s.Current())
}
