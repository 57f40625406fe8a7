package ledgertypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgertypes"
)

func TestDeployTransactionIDIsDeterministic(t *testing.T) {
	owner := sampleOwner()
	deployment := sampleDeployment(newIdentifier())
	fee := sampleFee()

	tx1 := ledgertypes.NewDeployTransaction(owner, deployment, fee)
	tx2 := ledgertypes.NewDeployTransaction(owner, deployment, fee)

	id1, err := tx1.ID()
	require.NoError(t, err)
	id2, err := tx2.ID()
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestExecuteTransactionIDChangesWithFee(t *testing.T) {
	execution, err := ledgertypes.NewExecution(1, []ledgertypes.Transition{sampleTransition()})
	require.NoError(t, err)

	txNoFee := ledgertypes.NewExecuteTransaction(execution, nil)
	fee := sampleFee()
	txWithFee := ledgertypes.NewExecuteTransaction(execution, &fee)

	idNoFee, err := txNoFee.ID()
	require.NoError(t, err)
	idWithFee, err := txWithFee.ID()
	require.NoError(t, err)
	assert.NotEqual(t, idNoFee, idWithFee)
}

func TestTransactionKindAccessors(t *testing.T) {
	owner := sampleOwner()
	deployment := sampleDeployment(newIdentifier())
	fee := sampleFee()
	deployTx := ledgertypes.NewDeployTransaction(owner, deployment, fee)

	assert.Equal(t, ledgertypes.KindDeploy, deployTx.Kind())
	gotOwner, gotDeployment, gotFee, ok := deployTx.Deploy()
	assert.True(t, ok)
	assert.Equal(t, owner, gotOwner)
	assert.Equal(t, deployment.ProgramID(), gotDeployment.ProgramID())
	assert.True(t, fee.Equal(gotFee))

	_, _, executeOK := deployTx.Execute()
	assert.False(t, executeOK)

	execution, execErr := ledgertypes.NewExecution(1, []ledgertypes.Transition{sampleTransition()})
	require.NoError(t, execErr)
	executeTx := ledgertypes.NewExecuteTransaction(execution, nil)
	assert.Equal(t, ledgertypes.KindExecute, executeTx.Kind())
	_, _, deployOK := executeTx.Deploy()
	assert.False(t, deployOK)
}

func TestNewExecutionRejectsEmpty(t *testing.T) {
	_, err := ledgertypes.NewExecution(1, nil)
	assert.Error(t, err)
}
