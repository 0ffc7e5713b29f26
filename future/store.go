package future

import (
	"sync"
)

// Store correlates producers and consumers by key:
// a consumer awaits the future for a key, a producer completes it.
type Store[K comparable, V any] struct {
	mu      sync.Mutex
	futures map[K]*Future[V]
	opts    []Option
}

func NewStore[K comparable, V any](opts ...Option) *Store[K, V] {
	return &Store[K, V]{
		futures: make(map[K]*Future[V]),
		opts:    opts,
	}
}

func (s *Store[K, V]) Get(key K) *Future[V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.futures[key]
}

func (s *Store[K, V]) GetOrCreate(key K) (*Future[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fut, exists := s.futures[key]
	if !exists {
		fut = New[V](s.opts...)
		s.futures[key] = fut
	}
	return fut, !exists
}

// Delete removes the future for key. A still pending future is cancelled,
// so its waiters observe the cancellation.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fut, exists := s.futures[key]
	if exists {
		fut.Cancel()
	}
	delete(s.futures, key)
}

// CancelAll cancels every pending future, used on shutdown.
// Completed futures are left untouched.
func (s *Store[K, V]) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fut := range s.futures {
		fut.Cancel()
	}
}

func (s *Store[K, V]) Each(fn func(key K, fut *Future[V]) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, fut := range s.futures {
		if !fn(key, fut) {
			break
		}
	}
}

func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.futures)
}

type StoreStats struct {
	Pending   int
	Completed int
	Cancelled int
}

func (s *Store[K, V]) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := StoreStats{}
	for _, fut := range s.futures {
		switch {
		case fut.IsCancelled():
			stats.Cancelled++
		case fut.IsDone():
			stats.Completed++
		default:
			stats.Pending++
		}
	}
	return stats
}
