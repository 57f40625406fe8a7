package mapstore

// Store is the uniform contract every backend in this module implements.
// K must be comparable so in-memory backends can use it directly as a Go
// map key; persistent backends additionally take a Codec for K and one
// for V, which convert them to and from the bytes the engine stores.
type Store[K comparable, V any] interface {
	// Insert stages a write under key. If an atomic batch is in
	// progress it is buffered as a pending write; otherwise it commits
	// immediately as its own single-operation batch.
	Insert(key K, value V) error

	// Remove stages a deletion under key, with the same buffering
	// behavior as Insert.
	Remove(key K) error

	// ContainsConfirmed reports whether key is present in durable
	// state, ignoring any in-progress batch.
	ContainsConfirmed(key K) (bool, error)

	// GetConfirmed reads key from durable state, ignoring any
	// in-progress batch.
	GetConfirmed(key K) (V, bool, error)

	// ContainsSpeculative reports whether key is present once the
	// in-progress batch (if any) is applied on top of durable state.
	ContainsSpeculative(key K) (bool, error)

	// GetSpeculative reads key as it would appear once the in-progress
	// batch (if any) is applied on top of durable state.
	GetSpeculative(key K) (V, bool, error)

	// GetPending reports only what the in-progress batch itself has
	// staged for key, without consulting durable state. staged is
	// false if the batch has not touched key at all; if staged is
	// true, isRemoval distinguishes a staged delete from a staged
	// write (whose value is returned).
	GetPending(key K) (value V, staged bool, isRemoval bool)

	// IterPending visits every key the in-progress batch has staged,
	// in no particular order, stopping early if yield returns false.
	IterPending(yield func(key K, value V, isRemoval bool) bool)

	// IterConfirmed visits every key present in durable state, in no
	// particular order, stopping early if yield returns false.
	IterConfirmed(yield func(key K, value V) bool)

	// KeysConfirmed visits every key present in durable state.
	KeysConfirmed(yield func(key K) bool)

	// ValuesConfirmed visits every value present in durable state.
	ValuesConfirmed(yield func(value V) bool)

	Batcher
}

// Batcher is the atomic batch protocol a Store (or a schema composed of
// several Stores) exposes to Scope and Finalize. It is split out of
// Store so schema types that wrap several maps can implement it directly
// by fanning out to their members, without repeating the read methods.
type Batcher interface {
	// StartAtomic begins a new batch. It is an error to call it again
	// before the current batch is finished, aborted or checkpointed by
	// a caller that knows how to nest — callers should use Scope and
	// Finalize instead of calling this directly.
	StartAtomic()

	// IsAtomicInProgress reports whether a batch is currently open.
	IsAtomicInProgress() bool

	// AtomicCheckpoint marks the current position in the batch's
	// pending writes so a later AtomicRewind can undo everything
	// staged since, without discarding the whole batch.
	AtomicCheckpoint()

	// AtomicRewind discards every write staged since the most recent
	// AtomicCheckpoint, leaving the batch open.
	AtomicRewind()

	// AbortAtomic discards the entire batch and closes it.
	AbortAtomic()

	// FinishAtomic commits every write staged in the batch to durable
	// state and closes it. An error leaves durable state exactly as it
	// was before the batch started.
	FinishAtomic() error
}
