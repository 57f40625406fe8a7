package txstore

import (
	dbm "github.com/cometbft/cometbft-db"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/lsmstore"
	"github.com/cuemby/ledgerstore/transition"
	"github.com/cuemby/ledgerstore/txstore/deployment"
	"github.com/cuemby/ledgerstore/txstore/execution"
)

func lsmBucket[K comparable, V any](db dbm.DB, prefix string, keyCdc mapstore.Codec[K], valCdc mapstore.Codec[V]) *lsmstore.Store[K, V] {
	return lsmstore.WrapDB[K, V](db, prefix, keyCdc, valCdc)
}

// OpenLSM wires a full Schema over a single embedded LevelDB database,
// one key prefix per map, the same bucket-per-map layout Open gives a
// bbolt file. It returns a close func the caller must invoke once done,
// since all maps share one underlying dbm.DB handle. An optional dev tag
// marks the wired schema as devnet-scoped; Schema.Dev reports it back.
func OpenLSM(name, dir string, dev ...uint16) (*Schema, func() error, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, nil, ledgererr.Wrap(ledgererr.BackendIO, "txstore", err)
	}
	closeFn := db.Close

	txKind := lsmBucket(db, "tx_kind/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), kindCodec())

	depID := lsmBucket(db, "deployment_id/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.ProgramID](ledgertypes.UnmarshalProgramID))
	depEdition := lsmBucket(db, "deployment_edition/", mapstore.BinaryCodec[ledgertypes.ProgramID](ledgertypes.UnmarshalProgramID), uint16Codec())
	depReverseID := lsmBucket(db, "deployment_reverse_id/", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	depOwner := lsmBucket(db, "deployment_owner/", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), ownerCodec())
	depProgram := lsmBucket(db, "deployment_program/", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), mapstore.BinaryCodec[ledgertypes.Program](ledgertypes.UnmarshalProgram))
	depVK := lsmBucket(db, "deployment_verifying_key/", mapstore.BinaryCodec[ledgertypes.FunctionEditionKey](ledgertypes.UnmarshalFunctionEditionKey), mapstore.BinaryCodec[ledgertypes.VerifyingKey](ledgertypes.UnmarshalVerifyingKey))
	depCert := lsmBucket(db, "deployment_certificate/", mapstore.BinaryCodec[ledgertypes.FunctionEditionKey](ledgertypes.UnmarshalFunctionEditionKey), mapstore.BinaryCodec[ledgertypes.Certificate](ledgertypes.UnmarshalCertificate))
	depFee := lsmBucket(db, "deployment_fee/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.FeeRecord](ledgertypes.UnmarshalFeeRecord))
	depReverseFee := lsmBucket(db, "deployment_reverse_fee/", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	depTransitions := lsmBucket(db, "deployment_transitions/", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.Transition](ledgertypes.UnmarshalTransition))

	execID := lsmBucket(db, "execution_id/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.ExecutionIndex](ledgertypes.UnmarshalExecutionIndex))
	execReverseID := lsmBucket(db, "execution_reverse_id/", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	execEdition := lsmBucket(db, "execution_edition/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), uint16Codec())
	execFeeRecord := lsmBucket(db, "execution_fee_record/", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.FeeRecord](ledgertypes.UnmarshalFeeRecord))
	execTransitions := lsmBucket(db, "execution_transitions/", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.Transition](ledgertypes.UnmarshalTransition))

	depTransitionStore := transition.New(depTransitions)
	execTransitionStore := transition.New(execTransitions)
	if len(dev) > 0 {
		depTransitionStore = transition.NewDev(depTransitions, dev[0])
		execTransitionStore = transition.NewDev(execTransitions, dev[0])
	}

	return &Schema{
		TxKind: txKind,
		Deployment: &deployment.Schema{
			ID:           depID,
			Edition:      depEdition,
			ReverseID:    depReverseID,
			Owner:        depOwner,
			Program:      depProgram,
			VerifyingKey: depVK,
			Certificate:  depCert,
			Fee:          depFee,
			ReverseFee:   depReverseFee,
			Transitions:  depTransitionStore,
		},
		Execution: &execution.Schema{
			ID:          execID,
			ReverseID:   execReverseID,
			Edition:     execEdition,
			FeeRecord:   execFeeRecord,
			Transitions: execTransitionStore,
		},
	}, closeFn, nil
}
