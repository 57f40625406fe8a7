// Package txstore is the top-level dispatch schema: it tags every
// transaction ID with its kind and routes Insert/Remove/read calls to the
// deployment or execution sub-schema that actually owns the payload.
package txstore

import (
	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgerlog"
	"github.com/cuemby/ledgerstore/ledgermetrics"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/txstore/deployment"
	"github.com/cuemby/ledgerstore/txstore/execution"
)

// Schema owns the tx_kind map plus the two sub-schemas it dispatches to.
type Schema struct {
	TxKind     mapstore.Store[ledgertypes.TransactionID, ledgertypes.TransactionKind]
	Deployment *deployment.Schema
	Execution  *execution.Schema
}

func (s *Schema) participants() []mapstore.Participant {
	return []mapstore.Participant{s.TxKind, s.Deployment, s.Execution}
}

func (s *Schema) StartAtomic()             { mapstore.FanOutStart(s.participants()) }
func (s *Schema) IsAtomicInProgress() bool { return mapstore.FanOutInProgress(s.participants()) }
func (s *Schema) AtomicCheckpoint()        { mapstore.FanOutCheckpoint(s.participants()) }
func (s *Schema) AtomicRewind()            { mapstore.FanOutRewind(s.participants()) }
func (s *Schema) AbortAtomic()             { mapstore.FanOutAbort(s.participants()) }
func (s *Schema) FinishAtomic() error      { return mapstore.FanOutFinish(s.participants()) }

var _ mapstore.Batcher = (*Schema)(nil)

// Dev reports the dev-namespace tag this store was opened under, if
// either sub-schema's transition store was wired against a devnet-scoped
// one. Deployment and Execution are always opened against the same dev
// tag by Open/OpenLSM, so the first sub-schema to report one wins.
func (s *Schema) Dev() (uint16, bool) {
	if dev, ok := s.Deployment.Dev(); ok {
		return dev, true
	}
	return s.Execution.Dev()
}

// Insert stages the kind tag then forwards to the owning sub-schema, all
// inside a single top-level atomic batch.
func (s *Schema) Insert(tx ledgertypes.Transaction) (ledgertypes.TransactionID, error) {
	txID, err := tx.ID()
	if err != nil {
		return ledgertypes.TransactionID{}, ledgererr.Wrap(ledgererr.MalformedInput, "txstore", err)
	}

	timer := ledgermetrics.NewTimer()
	err = mapstore.Finalize(s, func() error {
		if err := s.TxKind.Insert(txID, tx.Kind()); err != nil {
			return err
		}
		switch tx.Kind() {
		case ledgertypes.KindDeploy:
			owner, d, fee, _ := tx.Deploy()
			return s.Deployment.Insert(txID, owner, d, fee)
		case ledgertypes.KindExecute:
			exec, fee, _ := tx.Execute()
			return s.Execution.Insert(txID, exec, fee)
		default:
			return ledgererr.New(ledgererr.MalformedInput, "txstore", "unknown transaction kind")
		}
	})
	ledgermetrics.FinalizeOutcome("txstore", timer, err)
	if err != nil {
		ledgerlog.WithTransactionID(txID).Error().Err(err).Msg("failed to insert transaction")
		return ledgertypes.TransactionID{}, err
	}
	ledgermetrics.TransactionsTotal.WithLabelValues(tx.Kind().String()).Inc()
	ledgerlog.WithSchema("txstore").Debug().Str("kind", tx.Kind().String()).Str("transaction_id", txID.String()).Msg("inserted transaction")
	return txID, nil
}

// Remove reads the kind tag for txID (ErrNotFound if absent), removes it,
// then forwards the removal to the owning sub-schema.
func (s *Schema) Remove(txID ledgertypes.TransactionID) error {
	kind, ok, err := s.TxKind.GetConfirmed(txID)
	if err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "txstore", err)
	}
	if !ok {
		return ledgererr.New(ledgererr.NotFound, "txstore", "no transaction for "+txID.String())
	}

	timer := ledgermetrics.NewTimer()
	err = mapstore.Finalize(s, func() error {
		if err := s.TxKind.Remove(txID); err != nil {
			return err
		}
		switch kind {
		case ledgertypes.KindDeploy:
			return s.Deployment.Remove(txID)
		case ledgertypes.KindExecute:
			return s.Execution.Remove(txID)
		default:
			return ledgererr.New(ledgererr.Corrupt, "txstore", "unrecognized kind tag for "+txID.String())
		}
	})
	ledgermetrics.FinalizeOutcome("txstore", timer, err)
	if err != nil {
		ledgerlog.WithTransactionID(txID).Error().Err(err).Msg("failed to remove transaction")
		return err
	}
	ledgerlog.WithSchema("txstore").Debug().Str("transaction_id", txID.String()).Msg("removed transaction")
	return nil
}

// Kind reports the kind of the transaction stored under txID.
func (s *Schema) Kind(txID ledgertypes.TransactionID) (ledgertypes.TransactionKind, bool, error) {
	kind, ok, err := s.TxKind.GetConfirmed(txID)
	if err != nil {
		return 0, false, ledgererr.Wrap(ledgererr.BackendIO, "txstore", err)
	}
	return kind, ok, nil
}

// GetTransaction dispatches on the kind tag and reassembles the full
// Transaction from the owning sub-schema. It fails ErrWrongKind if want
// is non-zero and does not match the stored kind.
func (s *Schema) GetTransaction(txID ledgertypes.TransactionID, want ledgertypes.TransactionKind) (ledgertypes.Transaction, bool, error) {
	kind, ok, err := s.Kind(txID)
	if err != nil || !ok {
		return ledgertypes.Transaction{}, ok, err
	}
	if want != 0 && want != kind {
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.WrongKind, "txstore",
			"transaction "+txID.String()+" is "+kind.String()+", not "+want.String())
	}

	switch kind {
	case ledgertypes.KindDeploy:
		return s.Deployment.GetTransaction(txID)
	case ledgertypes.KindExecute:
		return s.Execution.GetTransaction(txID)
	default:
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.Corrupt, "txstore", "unrecognized kind tag for "+txID.String())
	}
}
