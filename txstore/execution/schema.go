// Package execution decomposes Execute transactions into four
// mutually-consistent maps: id, reverse_id, edition and fee_record, plus
// the schema's own transition store every transition (including the
// optional fee transition) is written into.
//
// The original storage layer left this insert/remove pair outside any
// atomic batch, unlike its deployment counterpart — an asymmetry that
// meant a crash mid-insert could leave transitions written without their
// index entries. This schema closes that gap: Insert and Remove both run
// inside mapstore.Scope, exactly like deployment.Schema.
package execution

import (
	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgerlog"
	"github.com/cuemby/ledgerstore/ledgermetrics"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/transition"
)

type Schema struct {
	ID        mapstore.Store[ledgertypes.TransactionID, ledgertypes.ExecutionIndex]
	ReverseID mapstore.Store[ledgertypes.TransitionID, ledgertypes.TransactionID]
	Edition   mapstore.Store[ledgertypes.TransactionID, uint16]
	// FeeRecord holds the global state root and inclusion proof for an
	// execution's optional fee transition. The original storage layer
	// only ever persisted the bare fee transition here, dropping its
	// state root and proof — meaning a reloaded execution transaction's
	// fee could never pass the same checks its deployment counterpart
	// does. This map closes that gap so Fee round-trips identically for
	// both transaction kinds.
	FeeRecord   mapstore.Store[ledgertypes.TransactionID, ledgertypes.FeeRecord]
	Transitions *transition.Store
}

func (s *Schema) participants() []mapstore.Participant {
	return []mapstore.Participant{s.ID, s.ReverseID, s.Edition, s.FeeRecord, s.Transitions}
}

func (s *Schema) StartAtomic()             { mapstore.FanOutStart(s.participants()) }
func (s *Schema) IsAtomicInProgress() bool { return mapstore.FanOutInProgress(s.participants()) }
func (s *Schema) AtomicCheckpoint()        { mapstore.FanOutCheckpoint(s.participants()) }
func (s *Schema) AtomicRewind()            { mapstore.FanOutRewind(s.participants()) }
func (s *Schema) AbortAtomic()             { mapstore.FanOutAbort(s.participants()) }
func (s *Schema) FinishAtomic() error      { return mapstore.FanOutFinish(s.participants()) }

var _ mapstore.Batcher = (*Schema)(nil)

// Dev reports the dev-namespace tag of the schema's transition store, if
// this schema was wired against a devnet-scoped one.
func (s *Schema) Dev() (uint16, bool) { return s.Transitions.Dev() }

// Insert decomposes an Execute transaction across the id, reverse_id and
// edition maps and writes every transition, as a single atomic unit.
func (s *Schema) Insert(txID ledgertypes.TransactionID, exec ledgertypes.Execution, fee *ledgertypes.Fee) error {
	transitions := exec.Transitions()
	index := ledgertypes.ExecutionIndex{TransitionIDs: make([]ledgertypes.TransitionID, 0, len(transitions))}
	for _, t := range transitions {
		index.TransitionIDs = append(index.TransitionIDs, t.ID())
	}
	if fee != nil {
		id := fee.TransitionID()
		index.FeeTransition = &id
	}

	return mapstore.Scope(s, func() error {
		if err := s.ID.Insert(txID, index); err != nil {
			return err
		}
		if err := s.Edition.Insert(txID, exec.Edition()); err != nil {
			return err
		}
		for _, t := range transitions {
			if err := s.ReverseID.Insert(t.ID(), txID); err != nil {
				return err
			}
			if err := s.Transitions.Insert(t); err != nil {
				return err
			}
		}
		if fee != nil {
			if err := s.ReverseID.Insert(fee.TransitionID(), txID); err != nil {
				return err
			}
			if err := s.Transitions.Insert(fee.Transition()); err != nil {
				return err
			}
			if err := s.FeeRecord.Insert(txID, fee.Record()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes every map entry and transition a prior Insert created
// for txID.
func (s *Schema) Remove(txID ledgertypes.TransactionID) error {
	index, ok, err := s.ID.GetConfirmed(txID)
	if err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	if !ok {
		return ledgererr.New(ledgererr.NotFound, "execution", "no execution for "+txID.String())
	}

	return mapstore.Scope(s, func() error {
		if err := s.ID.Remove(txID); err != nil {
			return err
		}
		if err := s.Edition.Remove(txID); err != nil {
			return err
		}
		for _, tid := range index.TransitionIDs {
			if err := s.ReverseID.Remove(tid); err != nil {
				return err
			}
			if err := s.Transitions.Remove(tid); err != nil {
				return err
			}
		}
		if index.FeeTransition != nil {
			if err := s.ReverseID.Remove(*index.FeeTransition); err != nil {
				return err
			}
			if err := s.Transitions.Remove(*index.FeeTransition); err != nil {
				return err
			}
			if err := s.FeeRecord.Remove(txID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Schema) FindTransactionID(transitionID ledgertypes.TransitionID) (ledgertypes.TransactionID, bool, error) {
	txID, ok, err := s.ReverseID.GetConfirmed(transitionID)
	if err != nil {
		return ledgertypes.TransactionID{}, false, ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	return txID, ok, nil
}

func (s *Schema) GetEdition(txID ledgertypes.TransactionID) (uint16, bool, error) {
	edition, ok, err := s.Edition.GetConfirmed(txID)
	if err != nil {
		return 0, false, ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	return edition, ok, nil
}

// GetExecution reassembles the Execution for txID from the id map's
// transition list plus the transition store, excluding any fee
// transition.
func (s *Schema) GetExecution(txID ledgertypes.TransactionID) (ledgertypes.Execution, bool, error) {
	edition, ok, err := s.GetEdition(txID)
	if err != nil {
		return ledgertypes.Execution{}, false, err
	}
	if !ok {
		return ledgertypes.Execution{}, false, nil
	}
	index, ok, err := s.ID.GetConfirmed(txID)
	if err != nil {
		return ledgertypes.Execution{}, false, ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	if !ok {
		return ledgertypes.Execution{}, false, ledgererr.New(ledgererr.Corrupt, "execution", "missing id entry for "+txID.String())
	}

	transitions := make([]ledgertypes.Transition, 0, len(index.TransitionIDs))
	for _, tid := range index.TransitionIDs {
		t, err := s.Transitions.Get(tid)
		if err != nil {
			return ledgertypes.Execution{}, false, err
		}
		transitions = append(transitions, t)
	}
	exec, err := ledgertypes.NewExecution(edition, transitions)
	if err != nil {
		return ledgertypes.Execution{}, false, ledgererr.Wrap(ledgererr.Corrupt, "execution", err)
	}
	return exec, true, nil
}

// GetFee reassembles the fee for txID from its transition plus its
// recorded state root and inclusion proof, if the execution has one.
func (s *Schema) GetFee(txID ledgertypes.TransactionID) (ledgertypes.Fee, bool, error) {
	index, ok, err := s.ID.GetConfirmed(txID)
	if err != nil {
		return ledgertypes.Fee{}, false, ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	if !ok || index.FeeTransition == nil {
		return ledgertypes.Fee{}, false, nil
	}
	t, err := s.Transitions.Get(*index.FeeTransition)
	if err != nil {
		return ledgertypes.Fee{}, false, err
	}
	rec, ok, err := s.FeeRecord.GetConfirmed(txID)
	if err != nil {
		return ledgertypes.Fee{}, false, ledgererr.Wrap(ledgererr.BackendIO, "execution", err)
	}
	if !ok {
		return ledgertypes.Fee{}, false, ledgererr.New(ledgererr.Corrupt, "execution", "missing fee record for "+txID.String())
	}
	return ledgertypes.NewFee(t, rec.GlobalStateRoot, rec.InclusionProof), true, nil
}

// GetTransaction reassembles the full Execute transaction for txID and
// verifies its recomputed ID matches the key it was stored under.
func (s *Schema) GetTransaction(txID ledgertypes.TransactionID) (ledgertypes.Transaction, bool, error) {
	exec, ok, err := s.GetExecution(txID)
	if err != nil || !ok {
		return ledgertypes.Transaction{}, ok, err
	}

	var fee *ledgertypes.Fee
	gotFee, hasFee, err := s.GetFee(txID)
	if err != nil {
		return ledgertypes.Transaction{}, false, err
	}
	if hasFee {
		fee = &gotFee
	}

	tx := ledgertypes.NewExecuteTransaction(exec, fee)
	gotID, err := tx.ID()
	if err != nil {
		ledgerlog.WithTransactionID(txID).Error().Err(err).Msg("failed to recompute execute transaction id")
		return ledgertypes.Transaction{}, false, ledgererr.Wrap(ledgererr.Corrupt, "execution", err)
	}
	if gotID != txID {
		ledgerlog.WithTransactionID(txID).Error().Str("got", gotID.String()).Msg("reassembled execute transaction id mismatch")
		ledgermetrics.CorruptReadsTotal.Inc()
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.Corrupt, "execution",
			"reassembled transaction id does not match "+txID.String())
	}
	ledgerlog.WithTransactionID(txID).Debug().Msg("reassembled execute transaction")
	return tx, true, nil
}
