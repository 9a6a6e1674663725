// Package session keeps per-visitor selection state. Each page owns its own
// fields; nothing is shared between sessions and nothing is persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/opendata-univ/barometre/logger"
)

// DefaultMaxSessions caps a store built with a non-positive capacity.
const DefaultMaxSessions = 10000

// Store maps session IDs to their State. It holds at most its capacity;
// sessions idle for longer than the TTL expire.
type Store struct {
	cache *expirable.LRU[string, *State]
}

// NewStore creates an empty store bounded to capacity sessions, each
// expiring ttl after its last use.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity <= 0 {
		capacity = DefaultMaxSessions
	}
	onEvict := func(id string, _ *State) {
		logger.Log.Debugf("session %s evicted", id)
	}
	return &Store{cache: expirable.NewLRU[string, *State](capacity, onEvict, ttl)}
}

// New creates a fresh session with a random ID.
func (s *Store) New() *State {
	st := NewState(uuid.NewString())
	s.cache.Add(st.id, st)
	return st
}

// Get returns the session with id, if any, and restarts its TTL.
func (s *Store) Get(id string) (*State, bool) {
	st, ok := s.cache.Get(id)
	if ok {
		s.cache.Add(id, st)
	}
	return st, ok
}

// GetOrCreate returns the session for id, or a new one when id is unknown,
// expired, or not a valid UUID. The bool reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*State, bool) {
	if _, err := uuid.Parse(id); err == nil {
		if st, ok := s.Get(id); ok {
			return st, false
		}
	}
	return s.New(), true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}

// State is one session's selections, keyed by page then field.
type State struct {
	mu    sync.Mutex
	id    string
	pages map[string]map[string]string
}

// NewState creates an empty State. Pages fill their defaults lazily.
func NewState(id string) *State {
	return &State{id: id, pages: make(map[string]map[string]string)}
}

// ID returns the session identifier.
func (st *State) ID() string { return st.id }

// Value returns the stored selection, initializing it with def() on first
// access. def is only called once per (page, field).
func (st *State) Value(page, field string, def func() string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	fields := st.pages[page]
	if fields == nil {
		fields = make(map[string]string)
		st.pages[page] = fields
	}
	if v, ok := fields[field]; ok {
		return v
	}
	v := def()
	fields[field] = v
	return v
}

// Get returns the stored selection without initializing it.
func (st *State) Get(page, field string) (string, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	v, ok := st.pages[page][field]
	return v, ok
}

// Set updates exactly one field of one page.
func (st *State) Set(page, field, value string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fields := st.pages[page]
	if fields == nil {
		fields = make(map[string]string)
		st.pages[page] = fields
	}
	fields[field] = value
}

// Snapshot returns a copy of one page's fields.
func (st *State) Snapshot(page string) map[string]string {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make(map[string]string, len(st.pages[page]))
	for k, v := range st.pages[page] {
		out[k] = v
	}
	return out
}
