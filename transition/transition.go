// Package transition stores opaque Transition records addressable by
// TransitionID. It is the sub-store each schema's maps ultimately point
// into: deployments reference a fee transition, executions reference a
// whole ordered list of them.
package transition

import (
	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
)

// Store wraps a mapstore.Store[TransitionID, Transition] with the
// read/write API the rest of this module uses instead of the raw map
// methods, plus the dev-namespace tag the store was opened with, if any.
type Store struct {
	transitions mapstore.Store[ledgertypes.TransitionID, ledgertypes.Transition]
	dev         *uint16
}

// New wraps backing with no dev tag; Dev reports ok=false.
func New(backing mapstore.Store[ledgertypes.TransitionID, ledgertypes.Transition]) *Store {
	return &Store{transitions: backing}
}

// NewDev wraps backing as a development-namespace store tagged with dev,
// the way a devnet-scoped store is opened against a specific dev edition.
func NewDev(backing mapstore.Store[ledgertypes.TransitionID, ledgertypes.Transition], dev uint16) *Store {
	return &Store{transitions: backing, dev: &dev}
}

// Dev reports the dev-namespace tag this store was opened with, if any.
func (s *Store) Dev() (uint16, bool) {
	if s.dev == nil {
		return 0, false
	}
	return *s.dev, true
}

// Insert stages a transition under its own ID. It does not compare
// against a transition already stored under that ID: a later insert
// replaces the earlier one.
func (s *Store) Insert(t ledgertypes.Transition) error {
	return s.transitions.Insert(t.ID(), t)
}

func (s *Store) Remove(id ledgertypes.TransitionID) error {
	return s.transitions.Remove(id)
}

func (s *Store) Get(id ledgertypes.TransitionID) (ledgertypes.Transition, error) {
	t, ok, err := s.transitions.GetConfirmed(id)
	if err != nil {
		return ledgertypes.Transition{}, ledgererr.Wrap(ledgererr.BackendIO, "transition", err)
	}
	if !ok {
		return ledgertypes.Transition{}, ledgererr.New(ledgererr.NotFound, "transition", "no transition under id "+id.String())
	}
	return t, nil
}

func (s *Store) Contains(id ledgertypes.TransitionID) (bool, error) {
	ok, err := s.transitions.ContainsConfirmed(id)
	if err != nil {
		return false, ledgererr.Wrap(ledgererr.BackendIO, "transition", err)
	}
	return ok, nil
}

// StartAtomic, IsAtomicInProgress, AtomicCheckpoint, AtomicRewind,
// AbortAtomic and FinishAtomic satisfy mapstore.Batcher by delegating
// straight to the backing map, so a Store can itself be passed to
// mapstore.Scope or fanned out alongside other schemas' maps.

func (s *Store) StartAtomic()            { s.transitions.StartAtomic() }
func (s *Store) IsAtomicInProgress() bool { return s.transitions.IsAtomicInProgress() }
func (s *Store) AtomicCheckpoint()       { s.transitions.AtomicCheckpoint() }
func (s *Store) AtomicRewind()           { s.transitions.AtomicRewind() }
func (s *Store) AbortAtomic()            { s.transitions.AbortAtomic() }
func (s *Store) FinishAtomic() error     { return s.transitions.FinishAtomic() }

var _ mapstore.Batcher = (*Store)(nil)
