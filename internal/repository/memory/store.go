// Package memory keeps every repository in process memory. It backs the
// "memory" database type used for local development and handler tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/haguru/yelpcamp/internal/models"
)

type txKey struct{}

// Store holds the data shared by the memory repositories.
// WithTransaction snapshots the data and restores it when fn fails.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	users           map[string]models.User
	campgrounds     map[string]models.Campground
	campgroundOrder []string
	reviews         map[string]models.Review
	sessions        map[string]models.Session
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:       map[string]models.User{},
		campgrounds: map[string]models.Campground{},
		reviews:     map[string]models.Review{},
		sessions:    map[string]models.Session{},
	}
}

// WithTransaction serializes transactions and rolls the store back if fn returns an error.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) snapshot() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := NewStore()
	for k, v := range s.users {
		cp.users[k] = v
	}
	for k, v := range s.campgrounds {
		cp.campgrounds[k] = cloneCampground(v)
	}
	cp.campgroundOrder = append([]string(nil), s.campgroundOrder...)
	for k, v := range s.reviews {
		cp.reviews[k] = v
	}
	for k, v := range s.sessions {
		cp.sessions[k] = v
	}
	return cp
}

func (s *Store) restore(snapshot *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = snapshot.users
	s.campgrounds = snapshot.campgrounds
	s.campgroundOrder = snapshot.campgroundOrder
	s.reviews = snapshot.reviews
	s.sessions = snapshot.sessions
}

func newID() string {
	return uuid.New().String()
}

// cloneCampground copies the slices so callers cannot alias stored state.
func cloneCampground(c models.Campground) models.Campground {
	cp := c
	cp.Images = append([]models.Image{}, c.Images...)
	cp.Reviews = append([]string{}, c.Reviews...)
	if c.Geometry != nil {
		geometry := *c.Geometry
		geometry.Coordinates = append([]float64(nil), c.Geometry.Coordinates...)
		cp.Geometry = &geometry
	}
	return cp
}
