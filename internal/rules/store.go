package rules

import (
	"sync/atomic"

	"adaptcoach/internal/adaptive"
)

// Store hands out the current engine. Readers never block; a reload swaps the
// whole engine so a request sees either the old tables or the new ones.
type Store struct {
	engine atomic.Pointer[adaptive.Engine]
}

// NewStore starts with an engine over t (the built-in tables when t is nil).
func NewStore(t *adaptive.Tables) *Store {
	s := &Store{}
	s.engine.Store(adaptive.NewEngine(t))
	return s
}

// Engine returns the current engine.
func (s *Store) Engine() *adaptive.Engine {
	return s.engine.Load()
}

// Replace validates t and makes it current. Invalid tables leave the store unchanged.
func (s *Store) Replace(t *adaptive.Tables) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.engine.Store(adaptive.NewEngine(t))
	return nil
}

// Reload loads path and makes it current.
func (s *Store) Reload(path string) error {
	t, err := Load(path)
	if err != nil {
		return err
	}
	return s.Replace(t)
}
