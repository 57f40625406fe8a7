package txstore

import (
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/boltstore"
	"github.com/cuemby/ledgerstore/transition"
	"github.com/cuemby/ledgerstore/txstore/deployment"
	"github.com/cuemby/ledgerstore/txstore/execution"
)

func uint16Codec() mapstore.Codec[uint16] {
	return mapstore.Codec[uint16]{
		Marshal: func(v uint16) ([]byte, error) { return []byte{byte(v >> 8), byte(v)}, nil },
		Unmarshal: func(b []byte) (uint16, error) {
			if len(b) < 2 {
				return 0, ledgertypes.ErrShortBuffer
			}
			return uint16(b[0])<<8 | uint16(b[1]), nil
		},
	}
}

func kindCodec() mapstore.Codec[ledgertypes.TransactionKind] {
	return mapstore.Codec[ledgertypes.TransactionKind]{
		Marshal: func(v ledgertypes.TransactionKind) ([]byte, error) { return []byte{byte(v)}, nil },
		Unmarshal: func(b []byte) (ledgertypes.TransactionKind, error) {
			if len(b) < 1 {
				return 0, ledgertypes.ErrShortBuffer
			}
			return ledgertypes.TransactionKind(b[0]), nil
		},
	}
}

func ownerCodec() mapstore.Codec[ledgertypes.ProgramOwner] {
	return mapstore.BinaryCodec[ledgertypes.ProgramOwner](ledgertypes.ProgramOwnerFromBytes)
}

// bucket opens one boltstore.Store over db in bucket, wired with the
// Codec pair the caller supplies for its key and value types.
func bucket[K comparable, V any](db *bolt.DB, name string, keyCdc mapstore.Codec[K], valCdc mapstore.Codec[V]) (*boltstore.Store[K, V], error) {
	return boltstore.Open[K, V](db, name, keyCdc, valCdc)
}

// Open wires a full Schema backed by one bbolt file: one bucket per map.
// The caller owns db's lifecycle. An optional dev tag marks the wired
// schema as devnet-scoped; Schema.Dev reports it back.
func Open(db *bolt.DB, dev ...uint16) (*Schema, error) {
	txKind, err := bucket(db, "tx_kind", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), kindCodec())
	if err != nil {
		return nil, err
	}

	depID, err := bucket(db, "deployment_id", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.ProgramID](ledgertypes.UnmarshalProgramID))
	if err != nil {
		return nil, err
	}
	depEdition, err := bucket(db, "deployment_edition", mapstore.BinaryCodec[ledgertypes.ProgramID](ledgertypes.UnmarshalProgramID), uint16Codec())
	if err != nil {
		return nil, err
	}
	depReverseID, err := bucket(db, "deployment_reverse_id", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	if err != nil {
		return nil, err
	}
	depOwner, err := bucket(db, "deployment_owner", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), ownerCodec())
	if err != nil {
		return nil, err
	}
	depProgram, err := bucket(db, "deployment_program", mapstore.BinaryCodec[ledgertypes.ProgramEditionKey](ledgertypes.UnmarshalProgramEditionKey), mapstore.BinaryCodec[ledgertypes.Program](ledgertypes.UnmarshalProgram))
	if err != nil {
		return nil, err
	}
	depVK, err := bucket(db, "deployment_verifying_key", mapstore.BinaryCodec[ledgertypes.FunctionEditionKey](ledgertypes.UnmarshalFunctionEditionKey), mapstore.BinaryCodec[ledgertypes.VerifyingKey](ledgertypes.UnmarshalVerifyingKey))
	if err != nil {
		return nil, err
	}
	depCert, err := bucket(db, "deployment_certificate", mapstore.BinaryCodec[ledgertypes.FunctionEditionKey](ledgertypes.UnmarshalFunctionEditionKey), mapstore.BinaryCodec[ledgertypes.Certificate](ledgertypes.UnmarshalCertificate))
	if err != nil {
		return nil, err
	}
	depFee, err := bucket(db, "deployment_fee", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.FeeRecord](ledgertypes.UnmarshalFeeRecord))
	if err != nil {
		return nil, err
	}
	depReverseFee, err := bucket(db, "deployment_reverse_fee", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	if err != nil {
		return nil, err
	}
	depTransitions, err := bucket(db, "deployment_transitions", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.Transition](ledgertypes.UnmarshalTransition))
	if err != nil {
		return nil, err
	}

	execID, err := bucket(db, "execution_id", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.ExecutionIndex](ledgertypes.UnmarshalExecutionIndex))
	if err != nil {
		return nil, err
	}
	execReverseID, err := bucket(db, "execution_reverse_id", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID))
	if err != nil {
		return nil, err
	}
	execEdition, err := bucket(db, "execution_edition", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), uint16Codec())
	if err != nil {
		return nil, err
	}
	execFeeRecord, err := bucket(db, "execution_fee_record", mapstore.BinaryCodec[ledgertypes.TransactionID](ledgertypes.UnmarshalTransactionID), mapstore.BinaryCodec[ledgertypes.FeeRecord](ledgertypes.UnmarshalFeeRecord))
	if err != nil {
		return nil, err
	}
	execTransitions, err := bucket(db, "execution_transitions", mapstore.BinaryCodec[ledgertypes.TransitionID](ledgertypes.UnmarshalTransitionID), mapstore.BinaryCodec[ledgertypes.Transition](ledgertypes.UnmarshalTransition))
	if err != nil {
		return nil, err
	}

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
	}, nil
}
