package mapstore

import (
	"strconv"

	"github.com/cuemby/ledgerstore/ledgererr"
)

// Participant is any component that can take part in a fanned-out atomic
// batch: a single Store, or a schema composed of several.
type Participant = Batcher

// Scope composes a unit of work across one or more Batchers so that
// nested calls compress into a single top-level batch: the outermost
// Scope starts the batch and commits it; any Scope entered while a batch
// is already open instead checkpoints and, on error, rewinds only its
// own writes, leaving the outer batch free to continue or itself roll
// everything back.
//
// body should stage writes through the owner (or through maps the owner
// fans out to) and return an error to cancel everything it staged.
func Scope(owner Batcher, body func() error) error {
	nested := owner.IsAtomicInProgress()
	if nested {
		owner.AtomicCheckpoint()
	} else {
		owner.StartAtomic()
	}

	if err := body(); err != nil {
		if nested {
			owner.AtomicRewind()
		} else {
			owner.AbortAtomic()
		}
		return err
	}

	if nested {
		return nil
	}
	return owner.FinishAtomic()
}

// Finalize runs body as a top-level batch that either commits or fully
// rolls back. If a batch is already open on owner it returns a
// UsageViolation error without running body or touching the open batch.
// Use it at the entry point of an operation that must leave no partial
// trace on failure.
func Finalize(owner Batcher, body func() error) error {
	if owner.IsAtomicInProgress() {
		return ledgererr.New(ledgererr.UsageViolation, "mapstore", "Finalize called while a batch is already open")
	}
	owner.StartAtomic()
	if err := body(); err != nil {
		owner.AbortAtomic()
		return err
	}
	return owner.FinishAtomic()
}

// FanOutStart starts a batch on every participant.
func FanOutStart(ps []Participant) {
	for _, p := range ps {
		p.StartAtomic()
	}
}

// FanOutInProgress reports whether any participant has an open batch.
func FanOutInProgress(ps []Participant) bool {
	for _, p := range ps {
		if p.IsAtomicInProgress() {
			return true
		}
	}
	return false
}

// FanOutCheckpoint checkpoints every participant.
func FanOutCheckpoint(ps []Participant) {
	for _, p := range ps {
		p.AtomicCheckpoint()
	}
}

// FanOutRewind rewinds every participant.
func FanOutRewind(ps []Participant) {
	for _, p := range ps {
		p.AtomicRewind()
	}
}

// FanOutAbort aborts every participant.
func FanOutAbort(ps []Participant) {
	for _, p := range ps {
		p.AbortAtomic()
	}
}

// FanOutFinish commits every participant in order, stopping at the first
// error. Participants that already committed before the failing one are
// not rolled back — the caller is left with a partial commit across the
// fanned-out maps, reported as ledgererr.PartialCommit so it can decide
// how to recover.
func FanOutFinish(ps []Participant) error {
	for i, p := range ps {
		if err := p.FinishAtomic(); err != nil {
			if i == 0 {
				return err
			}
			return ledgererr.Wrap(ledgererr.PartialCommit, "mapstore",
				partialCommitError{committed: i, total: len(ps), cause: err})
		}
	}
	return nil
}

type partialCommitError struct {
	committed int
	total     int
	cause     error
}

func (e partialCommitError) Error() string {
	return "fan-out finish: " + strconv.Itoa(e.committed) + " of " + strconv.Itoa(e.total) +
		" participants committed before: " + e.cause.Error()
}

func (e partialCommitError) Unwrap() error { return e.cause }
