package traveler

import (
	"context"
	"sync"
)

// Store persists travelers.
type Store interface {
	// FindByEmail returns the traveler registered with email, or ErrTravelerNotFound.
	FindByEmail(ctx context.Context, email string) (*Traveler, error)

	// Insert stores a new traveler, or returns ErrEmailTaken.
	Insert(ctx context.Context, t *Traveler) error
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*Traveler
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new in-memory traveler store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEmail: make(map[string]*Traveler),
	}
}

// FindByEmail retrieves a traveler by email.
func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Traveler, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byEmail[email]
	if !ok {
		return nil, ErrTravelerNotFound
	}

	cp := *t
	return &cp, nil
}

// Insert stores a new traveler.
func (s *InMemoryStore) Insert(_ context.Context, t *Traveler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[t.Email]; ok {
		return ErrEmailTaken
	}

	cp := *t
	s.byEmail[t.Email] = &cp
	return nil
}
