package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store holds session values between requests.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	s    Session
	seen time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type MemoryOption func(*memoryStore)

// WithTTL expires sessions idle for longer than d. Zero keeps them forever.
func WithTTL(d time.Duration) MemoryOption { return func(m *memoryStore) { m.ttl = d } }

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption { return func(m *memoryStore) { m.now = now } }

func NewMemoryStore(opts ...MemoryOption) Store {
	m := &memoryStore{
		sessions: map[string]memoryEntry{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get counts as activity: it restarts the idle timer.
func (m *memoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if m.expired(e) {
		delete(m.sessions, id)
		return Session{}, ErrNotFound
	}
	e.seen = m.now()
	m.sessions[id] = e
	return e.s, nil
}

func (m *memoryStore) Put(_ context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry{s: s, seen: m.now()}
	m.sweepLocked()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) expired(e memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.seen) > m.ttl
}

func (m *memoryStore) sweepLocked() {
	if m.ttl <= 0 {
		return
	}
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
		}
	}
}

// Load returns the stored session for id, or a fresh one when id is empty or
// unknown. The second return reports whether the session is new.
func Load(ctx context.Context, st Store, id string) (Session, bool, error) {
	if id != "" {
		s, err := st.Get(ctx, id)
		if err == nil {
			return s, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Session{}, false, err
		}
	}
	return New(), true, nil
}
