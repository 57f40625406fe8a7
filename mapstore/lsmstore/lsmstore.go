// Package lsmstore is the embedded LSM-tree mapstore.Store
// implementation, backed by cometbft-db's goleveldb driver. It commits a
// batch's staged writes through a single dbm.Batch so FinishAtomic is
// all-or-nothing at the storage-engine level.
package lsmstore

import (
	"bytes"
	"sync"

	dbm "github.com/cometbft/cometbft-db"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/mapstore"
)

// Store is a mapstore.Store[K,V] backed by an embedded LevelDB instance
// reached through cometbft-db's dbm.DB interface. Every key is prefixed
// so several Stores can share one underlying database, the way a
// schema's maps share one data directory.
type Store[K comparable, V any] struct {
	mu     sync.RWMutex
	db     dbm.DB
	prefix []byte
	keyCdc mapstore.Codec[K]
	valCdc mapstore.Codec[V]
	batch  mapstore.BatchLog[K, V]
}

// Open opens a new goleveldb-backed database handle named name in dir
// and returns a Store over it scoped by prefix; it does not reuse a
// handle that is already open. Distinct prefixes let several Stores
// share one database (see WrapDB) without colliding on keys.
func Open[K comparable, V any](name, dir, prefix string, keyCdc mapstore.Codec[K], valCdc mapstore.Codec[V]) (*Store[K, V], error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
	}
	return WrapDB[K, V](db, prefix, keyCdc, valCdc), nil
}

// WrapDB builds a Store over an already-open dbm.DB, for callers that
// want several Stores to share one handle directly rather than going
// through Open.
func WrapDB[K comparable, V any](db dbm.DB, prefix string, keyCdc mapstore.Codec[K], valCdc mapstore.Codec[V]) *Store[K, V] {
	return &Store[K, V]{db: db, prefix: []byte(prefix), keyCdc: keyCdc, valCdc: valCdc}
}

// Close releases the underlying database handle. Safe to call once per
// Open/WrapDB; callers sharing one dbm.DB across several Stores should
// close it themselves instead of calling Close on each Store.
func (s *Store[K, V]) Close() error {
	return s.db.Close()
}

func (s *Store[K, V]) prefixedKey(key K) ([]byte, error) {
	kb, err := s.keyCdc.Marshal(key)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.MalformedInput, "lsmstore", err)
	}
	out := make([]byte, 0, len(s.prefix)+len(kb))
	out = append(out, s.prefix...)
	out = append(out, kb...)
	return out, nil
}

func (s *Store[K, V]) Insert(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batch.InProgress() {
		s.batch.Stage(key, value, false)
		return nil
	}
	kb, err := s.prefixedKey(key)
	if err != nil {
		return err
	}
	vb, err := s.valCdc.Marshal(value)
	if err != nil {
		return ledgererr.Wrap(ledgererr.MalformedInput, "lsmstore", err)
	}
	if err := s.db.SetSync(kb, vb); err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
	}
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
	kb, err := s.prefixedKey(key)
	if err != nil {
		return err
	}
	if err := s.db.DeleteSync(kb); err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
	}
	return nil
}

func (s *Store[K, V]) ContainsConfirmed(key K) (bool, error) {
	_, ok, err := s.GetConfirmed(key)
	return ok, err
}

func (s *Store[K, V]) GetConfirmed(key K) (V, bool, error) {
	var zero V
	kb, err := s.prefixedKey(key)
	if err != nil {
		return zero, false, err
	}
	v, err := s.db.Get(kb)
	if err != nil {
		return zero, false, ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
	}
	if v == nil {
		return zero, false, nil
	}
	decoded, err := s.valCdc.Unmarshal(v)
	if err != nil {
		return zero, false, ledgererr.Wrap(ledgererr.Corrupt, "lsmstore", err)
	}
	return decoded, true, nil
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
	it, err := s.db.Iterator(s.prefix, prefixUpperBound(s.prefix))
	if err != nil {
		return
	}
	defer it.Close()
	for ; it.Valid(); it.Next() {
		rawKey := it.Key()
		if !bytes.HasPrefix(rawKey, s.prefix) {
			break
		}
		key, err := s.keyCdc.Unmarshal(rawKey[len(s.prefix):])
		if err != nil {
			return
		}
		val, err := s.valCdc.Unmarshal(it.Value())
		if err != nil {
			return
		}
		if !yield(key, val) {
			return
		}
	}
}

func (s *Store[K, V]) KeysConfirmed(yield func(key K) bool) {
	s.IterConfirmed(func(k K, _ V) bool { return yield(k) })
}

func (s *Store[K, V]) ValuesConfirmed(yield func(value V) bool) {
	s.IterConfirmed(func(_ K, v V) bool { return yield(v) })
}

// prefixUpperBound returns the smallest byte string that sorts after
// every key starting with prefix, for use as an iterator's exclusive end
// bound. A nil/empty prefix has no upper bound.
func prefixUpperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
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

// FinishAtomic applies every staged op through a single dbm.Batch, so a
// crash mid-commit leaves the database exactly as it was before the
// batch started.
func (s *Store[K, V]) FinishAtomic() error {
	s.mu.Lock()
	ops := s.batch.Finish()
	s.mu.Unlock()

	wb := s.db.NewBatch()
	defer wb.Close()

	for _, op := range ops {
		kb, err := s.prefixedKey(op.Key)
		if err != nil {
			return err
		}
		if op.IsRemoval {
			if err := wb.Delete(kb); err != nil {
				return ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
			}
			continue
		}
		vb, err := s.valCdc.Marshal(op.Value)
		if err != nil {
			return ledgererr.Wrap(ledgererr.MalformedInput, "lsmstore", err)
		}
		if err := wb.Set(kb, vb); err != nil {
			return ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
		}
	}
	if err := wb.WriteSync(); err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "lsmstore", err)
	}
	return nil
}

var _ mapstore.Store[string, int] = (*Store[string, int])(nil)
