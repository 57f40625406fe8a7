// Package memstore is the in-memory mapstore.Store backend: a plain Go
// map guarded by a mutex, used as the confirmed-state twin in tests and
// as the backend for components that never need to survive a restart.
package memstore

import (
	"sync"

	"github.com/cuemby/ledgerstore/mapstore"
)

// Store is a mapstore.Store[K,V] backed by an in-memory map. The zero
// value is not usable; construct with New.
type Store[K comparable, V any] struct {
	mu        sync.RWMutex
	confirmed map[K]V
	batch     mapstore.BatchLog[K, V]
}

func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{confirmed: make(map[K]V)}
}

func (s *Store[K, V]) Insert(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch.InProgress() {
		s.batch.Stage(key, value, false)
		return nil
	}
	s.confirmed[key] = value
	return nil
}

func (s *Store[K, V]) Remove(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch.InProgress() {
		var zero V
		s.batch.Stage(key, zero, true)
		return nil
	}
	delete(s.confirmed, key)
	return nil
}

func (s *Store[K, V]) ContainsConfirmed(key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.confirmed[key]
	return ok, nil
}

func (s *Store[K, V]) GetConfirmed(key K) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.confirmed[key]
	return v, ok, nil
}

func (s *Store[K, V]) ContainsSpeculative(key K) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, staged, removal := s.batch.Pending(key); staged {
		return !removal, nil
	}
	_, ok := s.confirmed[key]
	return ok, nil
}

func (s *Store[K, V]) GetSpeculative(key K) (V, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, staged, removal := s.batch.Pending(key); staged {
		if removal {
			var zero V
			return zero, false, nil
		}
		return v, true, nil
	}
	v, ok := s.confirmed[key]
	return v, ok, nil
}

func (s *Store[K, V]) GetPending(key K) (V, bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.Pending(key)
}

func (s *Store[K, V]) IterPending(yield func(key K, value V, isRemoval bool) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.batch.Iter(yield)
}

func (s *Store[K, V]) IterConfirmed(yield func(key K, value V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.confirmed {
		if !yield(k, v) {
			return
		}
	}
}

func (s *Store[K, V]) KeysConfirmed(yield func(key K) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k := range s.confirmed {
		if !yield(k) {
			return
		}
	}
}

func (s *Store[K, V]) ValuesConfirmed(yield func(value V) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.confirmed {
		if !yield(v) {
			return
		}
	}
}

func (s *Store[K, V]) StartAtomic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Start()
}

func (s *Store[K, V]) IsAtomicInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch.InProgress()
}

func (s *Store[K, V]) AtomicCheckpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Checkpoint()
}

func (s *Store[K, V]) AtomicRewind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Rewind()
}

func (s *Store[K, V]) AbortAtomic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch.Abort()
}

func (s *Store[K, V]) FinishAtomic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range s.batch.Finish() {
		if op.IsRemoval {
			delete(s.confirmed, op.Key)
			continue
		}
		s.confirmed[op.Key] = op.Value
	}
	return nil
}

var _ mapstore.Store[string, int] = (*Store[string, int])(nil)
