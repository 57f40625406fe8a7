// Package deployment decomposes Deploy transactions into nine
// mutually-consistent maps: id, edition, reverse_id, owner, program,
// verifying_key, certificate, fee and reverse_fee, plus the schema's
// own transition store the fee transition itself lives in.
package deployment

import (
	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgerlog"
	"github.com/cuemby/ledgerstore/ledgermetrics"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/transition"
)

// Schema wires together the nine maps a Deploy transaction decomposes
// into. Every field is itself a mapstore.Store, so a backend swap is
// just constructing Schema with different concrete Stores.
type Schema struct {
	ID            mapstore.Store[ledgertypes.TransactionID, ledgertypes.ProgramID]
	Edition       mapstore.Store[ledgertypes.ProgramID, uint16]
	ReverseID     mapstore.Store[ledgertypes.ProgramEditionKey, ledgertypes.TransactionID]
	Owner         mapstore.Store[ledgertypes.ProgramEditionKey, ledgertypes.ProgramOwner]
	Program       mapstore.Store[ledgertypes.ProgramEditionKey, ledgertypes.Program]
	VerifyingKey  mapstore.Store[ledgertypes.FunctionEditionKey, ledgertypes.VerifyingKey]
	Certificate   mapstore.Store[ledgertypes.FunctionEditionKey, ledgertypes.Certificate]
	Fee           mapstore.Store[ledgertypes.TransactionID, ledgertypes.FeeRecord]
	ReverseFee    mapstore.Store[ledgertypes.TransitionID, ledgertypes.TransactionID]
	Transitions   *transition.Store
}

func (s *Schema) participants() []mapstore.Participant {
	return []mapstore.Participant{
		s.ID, s.Edition, s.ReverseID, s.Owner, s.Program,
		s.VerifyingKey, s.Certificate, s.Fee, s.ReverseFee, s.Transitions,
	}
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

// Insert decomposes a Deploy transaction across all nine maps plus the
// fee transition, as a single atomic unit: either every map gains its
// share of the write, or none of them do.
func (s *Schema) Insert(txID ledgertypes.TransactionID, owner ledgertypes.ProgramOwner, d ledgertypes.Deployment, fee ledgertypes.Fee) error {
	if err := d.CheckIsOrdered(); err != nil {
		return ledgererr.Wrap(ledgererr.MalformedInput, "deployment", err)
	}

	edition := d.Edition
	program := d.Program
	programID := program.ID()
	key := ledgertypes.ProgramEditionKey{Program: programID, Edition: edition}

	return mapstore.Scope(s, func() error {
		if err := s.ID.Insert(txID, programID); err != nil {
			return err
		}
		if err := s.Edition.Insert(programID, edition); err != nil {
			return err
		}
		if err := s.ReverseID.Insert(key, txID); err != nil {
			return err
		}
		if err := s.Owner.Insert(key, owner); err != nil {
			return err
		}
		if err := s.Program.Insert(key, program); err != nil {
			return err
		}
		for _, vk := range d.VerifyingKeys {
			fnKey := ledgertypes.FunctionEditionKey{Program: programID, Function: vk.Function, Edition: edition}
			if err := s.VerifyingKey.Insert(fnKey, vk.VerifyingKey); err != nil {
				return err
			}
			if err := s.Certificate.Insert(fnKey, vk.Certificate); err != nil {
				return err
			}
		}
		record := fee.Record()
		if err := s.Fee.Insert(txID, record); err != nil {
			return err
		}
		if err := s.ReverseFee.Insert(record.TransitionID, txID); err != nil {
			return err
		}
		return s.Transitions.Insert(fee.Transition())
	})
}

// Remove deletes every map entry a prior Insert created for txID.
func (s *Schema) Remove(txID ledgertypes.TransactionID) error {
	programID, err := s.GetProgramID(txID)
	if err != nil {
		return err
	}
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgererr.New(ledgererr.Corrupt, "deployment", "no edition for "+programID.String())
		}
		return err
	}
	key := ledgertypes.ProgramEditionKey{Program: programID, Edition: edition}

	program, ok, err := s.Program.GetConfirmed(key)
	if err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgererr.New(ledgererr.Corrupt, "deployment", "no program for "+programID.String())
	}

	record, ok, err := s.Fee.GetConfirmed(txID)
	if err != nil {
		return ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgererr.New(ledgererr.Corrupt, "deployment", "no fee for "+txID.String())
	}

	return mapstore.Scope(s, func() error {
		if err := s.ID.Remove(txID); err != nil {
			return err
		}
		if err := s.Edition.Remove(programID); err != nil {
			return err
		}
		if err := s.ReverseID.Remove(key); err != nil {
			return err
		}
		if err := s.Owner.Remove(key); err != nil {
			return err
		}
		if err := s.Program.Remove(key); err != nil {
			return err
		}
		for _, fn := range program.Functions() {
			fnKey := ledgertypes.FunctionEditionKey{Program: programID, Function: fn, Edition: edition}
			if err := s.VerifyingKey.Remove(fnKey); err != nil {
				return err
			}
			if err := s.Certificate.Remove(fnKey); err != nil {
				return err
			}
		}
		if err := s.Fee.Remove(txID); err != nil {
			return err
		}
		if err := s.ReverseFee.Remove(record.TransitionID); err != nil {
			return err
		}
		return s.Transitions.Remove(record.TransitionID)
	})
}

// FindTransactionIDFromProgramID looks up the deploying transaction for
// the current edition of programID.
func (s *Schema) FindTransactionIDFromProgramID(programID ledgertypes.ProgramID) (ledgertypes.TransactionID, bool, error) {
	edition, ok, err := s.Edition.GetConfirmed(programID)
	if err != nil {
		return ledgertypes.TransactionID{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgertypes.TransactionID{}, false, nil
	}
	key := ledgertypes.ProgramEditionKey{Program: programID, Edition: edition}
	txID, ok, err := s.ReverseID.GetConfirmed(key)
	if err != nil {
		return ledgertypes.TransactionID{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgertypes.TransactionID{}, false, ledgererr.New(ledgererr.Corrupt, "deployment",
			"missing reverse_id entry for program "+programID.String())
	}
	return txID, true, nil
}

// FindTransactionIDFromTransitionID looks up the deploying transaction
// whose fee transition is transitionID.
func (s *Schema) FindTransactionIDFromTransitionID(transitionID ledgertypes.TransitionID) (ledgertypes.TransactionID, bool, error) {
	txID, ok, err := s.ReverseFee.GetConfirmed(transitionID)
	if err != nil {
		return ledgertypes.TransactionID{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	return txID, ok, nil
}

func (s *Schema) GetProgramID(txID ledgertypes.TransactionID) (ledgertypes.ProgramID, error) {
	id, ok, err := s.ID.GetConfirmed(txID)
	if err != nil {
		return ledgertypes.ProgramID{}, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgertypes.ProgramID{}, ledgererr.New(ledgererr.NotFound, "deployment", "no program id for "+txID.String())
	}
	return id, nil
}

func (s *Schema) GetEdition(programID ledgertypes.ProgramID) (uint16, error) {
	edition, ok, err := s.Edition.GetConfirmed(programID)
	if err != nil {
		return 0, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return 0, ledgererr.New(ledgererr.NotFound, "deployment", "no edition for "+programID.String())
	}
	return edition, nil
}

func (s *Schema) GetProgram(programID ledgertypes.ProgramID) (ledgertypes.Program, bool, error) {
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.Program{}, false, nil
		}
		return ledgertypes.Program{}, false, err
	}
	key := ledgertypes.ProgramEditionKey{Program: programID, Edition: edition}
	program, ok, err := s.Program.GetConfirmed(key)
	if err != nil {
		return ledgertypes.Program{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	return program, ok, nil
}

func (s *Schema) GetVerifyingKey(programID ledgertypes.ProgramID, fn ledgertypes.Identifier) (ledgertypes.VerifyingKey, bool, error) {
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.VerifyingKey{}, false, nil
		}
		return ledgertypes.VerifyingKey{}, false, err
	}
	key := ledgertypes.FunctionEditionKey{Program: programID, Function: fn, Edition: edition}
	vk, ok, err := s.VerifyingKey.GetConfirmed(key)
	if err != nil {
		return ledgertypes.VerifyingKey{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	return vk, ok, nil
}

func (s *Schema) GetCertificate(programID ledgertypes.ProgramID, fn ledgertypes.Identifier) (ledgertypes.Certificate, bool, error) {
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.Certificate{}, false, nil
		}
		return ledgertypes.Certificate{}, false, err
	}
	key := ledgertypes.FunctionEditionKey{Program: programID, Function: fn, Edition: edition}
	cert, ok, err := s.Certificate.GetConfirmed(key)
	if err != nil {
		return ledgertypes.Certificate{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	return cert, ok, nil
}

// GetDeployment reassembles a full Deployment from the program and
// edition maps plus one (verifying key, certificate) pair per function.
func (s *Schema) GetDeployment(txID ledgertypes.TransactionID) (ledgertypes.Deployment, bool, error) {
	programID, err := s.GetProgramID(txID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.Deployment{}, false, nil
		}
		return ledgertypes.Deployment{}, false, err
	}
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.Deployment{}, false, ledgererr.New(ledgererr.Corrupt, "deployment", "missing edition for "+programID.String())
		}
		return ledgertypes.Deployment{}, false, err
	}
	program, ok, err := s.GetProgram(programID)
	if err != nil {
		return ledgertypes.Deployment{}, false, err
	}
	if !ok {
		return ledgertypes.Deployment{}, false, ledgererr.New(ledgererr.Corrupt, "deployment", "missing program for "+programID.String())
	}

	keys := make([]ledgertypes.VKEntry, 0, len(program.Functions()))
	for _, fn := range program.Functions() {
		vk, ok, err := s.GetVerifyingKey(programID, fn)
		if err != nil {
			return ledgertypes.Deployment{}, false, err
		}
		if !ok {
			return ledgertypes.Deployment{}, false, ledgererr.New(ledgererr.Corrupt, "deployment",
				"missing verifying key for "+programID.String()+"/"+fn.String())
		}
		cert, ok, err := s.GetCertificate(programID, fn)
		if err != nil {
			return ledgertypes.Deployment{}, false, err
		}
		if !ok {
			return ledgertypes.Deployment{}, false, ledgererr.New(ledgererr.Corrupt, "deployment",
				"missing certificate for "+programID.String()+"/"+fn.String())
		}
		keys = append(keys, ledgertypes.VKEntry{Function: fn, VerifyingKey: vk, Certificate: cert})
	}
	return ledgertypes.NewDeployment(edition, program, keys), true, nil
}

// GetFee reassembles a Fee from the fee record plus the referenced
// transition.
func (s *Schema) GetFee(txID ledgertypes.TransactionID) (ledgertypes.Fee, bool, error) {
	record, ok, err := s.Fee.GetConfirmed(txID)
	if err != nil {
		return ledgertypes.Fee{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	if !ok {
		return ledgertypes.Fee{}, false, nil
	}
	tr, err := s.Transitions.Get(record.TransitionID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.Fee{}, false, ledgererr.New(ledgererr.Corrupt, "deployment", "missing fee transition for "+txID.String())
		}
		return ledgertypes.Fee{}, false, err
	}
	return ledgertypes.NewFee(tr, record.GlobalStateRoot, record.InclusionProof), true, nil
}

func (s *Schema) GetOwner(programID ledgertypes.ProgramID) (ledgertypes.ProgramOwner, bool, error) {
	edition, err := s.GetEdition(programID)
	if err != nil {
		if kind, ok := ledgererr.Of(err); ok && kind == ledgererr.NotFound {
			return ledgertypes.ProgramOwner{}, false, nil
		}
		return ledgertypes.ProgramOwner{}, false, err
	}
	key := ledgertypes.ProgramEditionKey{Program: programID, Edition: edition}
	owner, ok, err := s.Owner.GetConfirmed(key)
	if err != nil {
		return ledgertypes.ProgramOwner{}, false, ledgererr.Wrap(ledgererr.BackendIO, "deployment", err)
	}
	return owner, ok, nil
}

// GetTransaction reassembles the full Deploy transaction for txID and
// verifies its recomputed ID matches the key it was stored under.
func (s *Schema) GetTransaction(txID ledgertypes.TransactionID) (ledgertypes.Transaction, bool, error) {
	d, ok, err := s.GetDeployment(txID)
	if err != nil || !ok {
		return ledgertypes.Transaction{}, ok, err
	}
	fee, ok, err := s.GetFee(txID)
	if err != nil {
		return ledgertypes.Transaction{}, false, err
	}
	if !ok {
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.Corrupt, "deployment", "missing fee for "+txID.String())
	}
	owner, ok, err := s.GetOwner(d.ProgramID())
	if err != nil {
		return ledgertypes.Transaction{}, false, err
	}
	if !ok {
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.Corrupt, "deployment", "missing owner for "+txID.String())
	}

	tx := ledgertypes.NewDeployTransaction(owner, d, fee)
	gotID, err := tx.ID()
	if err != nil {
		ledgerlog.WithTransactionID(txID).Error().Err(err).Msg("failed to recompute deploy transaction id")
		return ledgertypes.Transaction{}, false, ledgererr.Wrap(ledgererr.Corrupt, "deployment", err)
	}
	if gotID != txID {
		ledgerlog.WithTransactionID(txID).Error().Str("got", gotID.String()).Msg("reassembled deploy transaction id mismatch")
		ledgermetrics.CorruptReadsTotal.Inc()
		return ledgertypes.Transaction{}, false, ledgererr.New(ledgererr.Corrupt, "deployment",
			"reassembled transaction id does not match "+txID.String())
	}
	ledgerlog.WithTransactionID(txID).Debug().Msg("reassembled deploy transaction")
	return tx, true, nil
}
