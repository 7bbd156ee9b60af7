// Package session keeps editor sessions in memory, keyed by a random id,
// and drops them after a period without access.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/alnah/go-markvis/internal/editor"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Store defaults.
const (
	DefaultTTL     = 2 * time.Hour
	cleanupDivisor = 4
)

// Store is an in-memory TTL store of editor sessions. Each Get extends the
// session's lifetime. Expired sessions are gone; nothing is persisted.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store whose sessions live ttl after their last
// access. A non-positive ttl uses DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: cache.New(ttl, ttl/cleanupDivisor),
		ttl:   ttl,
	}
}

// Create starts a session from initial and returns its id.
func (s *Store) Create(initial editor.State) (string, *editor.Session) {
	id := uuid.NewString()
	sess := editor.NewSession(initial)
	s.cache.Set(id, sess, s.ttl)
	return id, sess
}

// Get returns the session for id and refreshes its expiry.
func (s *Store) Get(id string) (*editor.Session, error) {
	v, found := s.cache.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	sess, ok := v.(*editor.Session)
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.cache.Set(id, sess, s.ttl)
	return sess, nil
}

// Delete removes the session for id.
func (s *Store) Delete(id string) error {
	if _, found := s.cache.Get(id); !found {
		return ErrSessionNotFound
	}
	s.cache.Delete(id)
	return nil
}

// Len returns the number of live sessions, expired ones included until the
// next cleanup.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
