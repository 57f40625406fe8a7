package ledgertypes

import (
	"crypto/sha256"
	"fmt"
)

// TransactionKind distinguishes the two transaction payloads the storage
// core knows how to decompose into maps.
type TransactionKind uint8

const (
	KindDeploy TransactionKind = iota + 1
	KindExecute
)

func (k TransactionKind) String() string {
	switch k {
	case KindDeploy:
		return "deploy"
	case KindExecute:
		return "execute"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// DeployPayload is the content of a Deploy transaction.
type DeployPayload struct {
	Owner      ProgramOwner
	Deployment Deployment
	Fee        Fee
}

// ExecutePayload is the content of an Execute transaction. Fee is nil when
// the execution pays no separate fee transition.
type ExecutePayload struct {
	Execution Execution
	Fee       *Fee
}

// Transaction is a tagged union over DeployPayload and ExecutePayload.
// Its ID is never stored: it is recomputed from the payload on every call
// to ID, so a transaction read back from storage always hashes to the
// same value it was inserted under.
type Transaction struct {
	kind    TransactionKind
	deploy  *DeployPayload
	execute *ExecutePayload
}

func NewDeployTransaction(owner ProgramOwner, deployment Deployment, fee Fee) Transaction {
	return Transaction{
		kind:   KindDeploy,
		deploy: &DeployPayload{Owner: owner, Deployment: deployment, Fee: fee},
	}
}

func NewExecuteTransaction(execution Execution, fee *Fee) Transaction {
	payload := &ExecutePayload{Execution: execution}
	if fee != nil {
		f := *fee
		payload.Fee = &f
	}
	return Transaction{kind: KindExecute, execute: payload}
}

func (t Transaction) Kind() TransactionKind { return t.kind }

// Deploy returns the owner, deployment and fee of the transaction's
// DeployPayload and true if it is a Deploy transaction.
func (t Transaction) Deploy() (ProgramOwner, Deployment, Fee, bool) {
	if t.kind != KindDeploy || t.deploy == nil {
		return ProgramOwner{}, Deployment{}, Fee{}, false
	}
	return t.deploy.Owner, t.deploy.Deployment, t.deploy.Fee, true
}

// Execute returns the execution and optional fee of the transaction's
// ExecutePayload and true if it is an Execute transaction.
func (t Transaction) Execute() (Execution, *Fee, bool) {
	if t.kind != KindExecute || t.execute == nil {
		return Execution{}, nil, false
	}
	return t.execute.Execution, t.execute.Fee, true
}

// ID derives the transaction's content address deterministically. It is
// a pure function of the encoded payload — computed fresh each call,
// never cached on the struct or persisted as its own field — so that a
// transaction decoded from a schema's maps always reproduces the ID it
// was inserted under.
func (t Transaction) ID() (TransactionID, error) {
	enc, err := t.canonicalBytes()
	if err != nil {
		return TransactionID{}, err
	}
	return TransactionID(sha256.Sum256(enc)), nil
}

func (t Transaction) canonicalBytes() ([]byte, error) {
	switch t.kind {
	case KindDeploy:
		if t.deploy == nil {
			return nil, fmt.Errorf("ledgertypes: deploy transaction missing payload")
		}
		buf := []byte{byte(KindDeploy)}
		buf = append(buf, t.deploy.Owner.Bytes()...)
		db, err := t.deploy.Deployment.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, db)
		fb, err := t.deploy.Fee.Record().MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, fb)
		return buf, nil
	case KindExecute:
		if t.execute == nil {
			return nil, fmt.Errorf("ledgertypes: execute transaction missing payload")
		}
		buf := []byte{byte(KindExecute)}
		eb, err := t.execute.Execution.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = putBlob(buf, eb)
		if t.execute.Fee == nil {
			buf = append(buf, 0)
		} else {
			buf = append(buf, 1)
			fb, err := t.execute.Fee.Record().MarshalBinary()
			if err != nil {
				return nil, err
			}
			buf = putBlob(buf, fb)
		}
		return buf, nil
	default:
		return nil, fmt.Errorf("ledgertypes: unknown transaction kind %d", t.kind)
	}
}
