// Package boltstore is the bbolt-backed mapstore.Store implementation:
// every key and value is encoded to bytes through a mapstore.Codec and
// stored in a single bucket per map, the same bucket-per-entity layout
// the bolt-backed warren storage package used.
package boltstore

import (
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/mapstore"
)

// Store is a mapstore.Store[K,V] backed by a single bbolt bucket. K and V
// are encoded to bytes with the Codecs supplied to Open; durable state
// lives entirely in the bucket, while the in-progress batch is buffered
// in memory and only touches bbolt inside FinishAtomic.
type Store[K comparable, V any] struct {
	mu     sync.RWMutex
	db     *bolt.DB
	bucket []byte
	keyCdc mapstore.Codec[K]
	valCdc mapstore.Codec[V]
	batch  mapstore.BatchLog[K, V]
}

// Open creates (or reuses) bucket in db and returns a Store over it. The
// caller owns db's lifecycle — several Stores over distinct buckets
// typically share one *bolt.DB, the way a schema's maps share one file.
func Open[K comparable, V any](db *bolt.DB, bucket string, keyCdc mapstore.Codec[K], valCdc mapstore.Codec[V]) (*Store[K, V], error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.BackendIO, "boltstore", fmt.Errorf("create bucket %s: %w", bucket, err))
	}
	return &Store[K, V]{db: db, bucket: []byte(bucket), keyCdc: keyCdc, valCdc: valCdc}, nil
}

func (s *Store[K, V]) encodeKey(key K) ([]byte, error) {
	b, err := s.keyCdc.Marshal(key)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.MalformedInput, "boltstore", err)
	}
	return b, nil
}

func (s *Store[K, V]) encodeValue(value V) ([]byte, error) {
	b, err := s.valCdc.Marshal(value)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.MalformedInput, "boltstore", err)
	}
	return b, nil
}

func (s *Store[K, V]) Insert(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch.InProgress() {
		s.batch.Stage(key, value, false)
		return nil
	}
	return s.commitOne(key, value, false)
}

func (s *Store[K, V]) Remove(key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch.InProgress() {
		var zero V
		s.batch.Stage(key, zero, true)
		return nil
	}
	return s.commitOne(key, *new(V), true)
}

func (s *Store[K, V]) commitOne(key K, value V, isRemoval bool) error {
	kb, err := s.encodeKey(key)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if isRemoval {
			return b.Delete(kb)
		}
		vb, err := s.encodeValue(value)
		if err != nil {
			return err
		}
		return b.Put(kb, vb)
	})
}

func (s *Store[K, V]) ContainsConfirmed(key K) (bool, error) {
	_, ok, err := s.GetConfirmed(key)
	return ok, err
}

func (s *Store[K, V]) GetConfirmed(key K) (V, bool, error) {
	var zero V
	kb, err := s.encodeKey(key)
	if err != nil {
		return zero, false, err
	}
	var found bool
	var out V
	err = s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get(kb)
		if v == nil {
			return nil
		}
		decoded, err := s.valCdc.Unmarshal(v)
		if err != nil {
			return ledgererr.Wrap(ledgererr.Corrupt, "boltstore", err)
		}
		found = true
		out = decoded
		return nil
	})
	if err != nil {
		return zero, false, err
	}
	return out, found, nil
}

func (s *Store[K, V]) ContainsSpeculative(key K) (bool, error) {
	s.mu.RLock()
	_, staged, isRemoval := s.batch.Pending(key)
	s.mu.RUnlock()
	if staged {
		return !isRemoval, nil
	}
	return s.ContainsConfirmed(key)
}

func (s *Store[K, V]) GetSpeculative(key K) (V, bool, error) {
	s.mu.RLock()
	v, staged, isRemoval := s.batch.Pending(key)
	s.mu.RUnlock()
	if staged {
		if isRemoval {
			var zero V
			return zero, false, nil
		}
		return v, true, nil
	}
	return s.GetConfirmed(key)
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
	_ = s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			val, err := s.valCdc.Unmarshal(v)
			if err != nil {
				return ledgererr.Wrap(ledgererr.Corrupt, "boltstore", err)
			}
			key, err := s.keyCdc.Unmarshal(k)
			if err != nil {
				return ledgererr.Wrap(ledgererr.Corrupt, "boltstore", err)
			}
			if !yield(key, val) {
				return nil
			}
		}
		return nil
	})
}

func (s *Store[K, V]) KeysConfirmed(yield func(key K) bool) {
	s.IterConfirmed(func(k K, _ V) bool { return yield(k) })
}

func (s *Store[K, V]) ValuesConfirmed(yield func(value V) bool) {
	s.IterConfirmed(func(_ K, v V) bool { return yield(v) })
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

// FinishAtomic applies every staged op inside a single bbolt transaction,
// so a crash mid-commit leaves durable state exactly as it was before
// the batch started.
func (s *Store[K, V]) FinishAtomic() error {
	s.mu.Lock()
	ops := s.batch.Finish()
	s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, op := range ops {
			kb, err := s.encodeKey(op.Key)
			if err != nil {
				return err
			}
			if op.IsRemoval {
				if err := b.Delete(kb); err != nil {
					return ledgererr.Wrap(ledgererr.BackendIO, "boltstore", err)
				}
				continue
			}
			vb, err := s.encodeValue(op.Value)
			if err != nil {
				return err
			}
			if err := b.Put(kb, vb); err != nil {
				return ledgererr.Wrap(ledgererr.BackendIO, "boltstore", err)
			}
		}
		return nil
	})
}

var _ mapstore.Store[string, int] = (*Store[string, int])(nil)
