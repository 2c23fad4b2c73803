package kafka

import "sync"

// Store is the keyed record store sitting between a worker goroutine
// (writer) and a sink endpoint's dispatcher goroutine (reader): the worker
// deposits a Record under a fresh Token before publishing that token on the
// Bus, and the dispatcher removes it once converted into an AMQP message. A
// generic map guarded by one mutex is enough; the access pattern is never
// contended enough to warrant sharding.
type Store[V any] struct {
	mu sync.Mutex
	m  map[Token]V
}

func NewStore[V any]() *Store[V] {
	return &Store[V]{m: make(map[Token]V)}
}

func (s *Store[V]) Put(tok Token, v V) {
	s.mu.Lock()
	s.m[tok] = v
	s.mu.Unlock()
}

// Remove deletes and returns the value for tok, reporting whether it was
// present. Sink endpoints call this once per dispatched delivery; a token
// can legitimately be gone already (its record was dropped as stale, or a
// duplicate drain raced), so callers treat !ok as a no-op, not an error.
func (s *Store[V]) Remove(tok Token) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[tok]
	if ok {
		delete(s.m, tok)
	}
	return v, ok
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// Clear empties the store; called when a sink endpoint tears down so any
// undelivered records are released.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	s.m = make(map[Token]V)
	s.mu.Unlock()
}
