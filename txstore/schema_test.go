package txstore_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore/memstore"
	"github.com/cuemby/ledgerstore/transition"
	"github.com/cuemby/ledgerstore/txstore"
	"github.com/cuemby/ledgerstore/txstore/deployment"
	"github.com/cuemby/ledgerstore/txstore/execution"
)

func newDispatchSchema() *txstore.Schema {
	return &txstore.Schema{
		TxKind: memstore.New[ledgertypes.TransactionID, ledgertypes.TransactionKind](),
		Deployment: &deployment.Schema{
			ID:           memstore.New[ledgertypes.TransactionID, ledgertypes.ProgramID](),
			Edition:      memstore.New[ledgertypes.ProgramID, uint16](),
			ReverseID:    memstore.New[ledgertypes.ProgramEditionKey, ledgertypes.TransactionID](),
			Owner:        memstore.New[ledgertypes.ProgramEditionKey, ledgertypes.ProgramOwner](),
			Program:      memstore.New[ledgertypes.ProgramEditionKey, ledgertypes.Program](),
			VerifyingKey: memstore.New[ledgertypes.FunctionEditionKey, ledgertypes.VerifyingKey](),
			Certificate:  memstore.New[ledgertypes.FunctionEditionKey, ledgertypes.Certificate](),
			Fee:          memstore.New[ledgertypes.TransactionID, ledgertypes.FeeRecord](),
			ReverseFee:   memstore.New[ledgertypes.TransitionID, ledgertypes.TransactionID](),
			Transitions:  transition.New(memstore.New[ledgertypes.TransitionID, ledgertypes.Transition]()),
		},
		Execution: &execution.Schema{
			ID:          memstore.New[ledgertypes.TransactionID, ledgertypes.ExecutionIndex](),
			ReverseID:   memstore.New[ledgertypes.TransitionID, ledgertypes.TransactionID](),
			Edition:     memstore.New[ledgertypes.TransactionID, uint16](),
			FeeRecord:   memstore.New[ledgertypes.TransactionID, ledgertypes.FeeRecord](),
			Transitions: transition.New(memstore.New[ledgertypes.TransitionID, ledgertypes.Transition]()),
		},
	}
}

func idFromUUID() [32]byte {
	var out [32]byte
	u := uuid.New()
	copy(out[:16], u[:])
	copy(out[16:], u[:])
	return out
}

func sampleDeployTx() ledgertypes.Transaction {
	fn := ledgertypes.Identifier(idFromUUID())
	program := ledgertypes.NewProgram([]ledgertypes.Identifier{fn}, []byte("body-"+uuid.NewString()))
	keys := []ledgertypes.VKEntry{{
		Function:     fn,
		VerifyingKey: ledgertypes.NewVerifyingKey([]byte("vk-" + uuid.NewString())),
		Certificate:  ledgertypes.NewCertificate([]byte("cert-" + uuid.NewString())),
	}}
	d := ledgertypes.NewDeployment(1, program, keys)

	var owner ledgertypes.ProgramOwner
	copy(owner.Address[:], idFromUUID()[:])

	feeTransition := ledgertypes.NewTransition(ledgertypes.TransitionID(idFromUUID()), []byte("fee-transition"))
	fee := ledgertypes.NewFee(feeTransition, ledgertypes.StateRoot(idFromUUID()), nil)

	return ledgertypes.NewDeployTransaction(owner, d, fee)
}

func sampleExecuteTx() ledgertypes.Transaction {
	t1 := ledgertypes.NewTransition(ledgertypes.TransitionID(idFromUUID()), []byte("call-1"))
	exec, err := ledgertypes.NewExecution(2, []ledgertypes.Transition{t1})
	if err != nil {
		panic(err)
	}
	return ledgertypes.NewExecuteTransaction(exec, nil)
}

func TestDispatchRoutesDeployAndExecute(t *testing.T) {
	schema := newDispatchSchema()

	deployTx := sampleDeployTx()
	deployID, err := schema.Insert(deployTx)
	require.NoError(t, err)

	executeTx := sampleExecuteTx()
	executeID, err := schema.Insert(executeTx)
	require.NoError(t, err)

	kind, ok, err := schema.Kind(deployID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledgertypes.KindDeploy, kind)

	kind, ok, err = schema.Kind(executeID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledgertypes.KindExecute, kind)

	got, ok, err := schema.GetTransaction(deployID, 0)
	require.NoError(t, err)
	require.True(t, ok)
	gotID, err := got.ID()
	require.NoError(t, err)
	assert.Equal(t, deployID, gotID)

	got, ok, err = schema.GetTransaction(executeID, 0)
	require.NoError(t, err)
	require.True(t, ok)
	gotID, err = got.ID()
	require.NoError(t, err)
	assert.Equal(t, executeID, gotID)
}

func TestGetTransactionRejectsWrongKind(t *testing.T) {
	schema := newDispatchSchema()
	deployTx := sampleDeployTx()
	deployID, err := schema.Insert(deployTx)
	require.NoError(t, err)

	_, _, err = schema.GetTransaction(deployID, ledgertypes.KindExecute)
	require.Error(t, err)
	kind, ok := ledgererr.Of(err)
	require.True(t, ok)
	assert.Equal(t, ledgererr.WrongKind, kind)
}

func TestRemoveClearsKindTagAndPayload(t *testing.T) {
	schema := newDispatchSchema()
	tx := sampleExecuteTx()
	txID, err := schema.Insert(tx)
	require.NoError(t, err)

	require.NoError(t, schema.Remove(txID))

	_, ok, err := schema.Kind(txID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = schema.GetTransaction(txID, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveMissingReturnsNotFound(t *testing.T) {
	schema := newDispatchSchema()
	var txID ledgertypes.TransactionID
	txID[0] = 3

	err := schema.Remove(txID)
	require.Error(t, err)
	kind, ok := ledgererr.Of(err)
	require.True(t, ok)
	assert.Equal(t, ledgererr.NotFound, kind)
}
