package ledgertypes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgertypes"
)

func TestDeploymentCheckIsOrderedAccepts(t *testing.T) {
	d := sampleDeployment(newIdentifier(), newIdentifier())
	assert.NoError(t, d.CheckIsOrdered())
}

func TestDeploymentCheckIsOrderedRejectsMismatchedCount(t *testing.T) {
	d := sampleDeployment(newIdentifier(), newIdentifier())
	d.VerifyingKeys = d.VerifyingKeys[:1]
	assert.Error(t, d.CheckIsOrdered())
}

func TestDeploymentCheckIsOrderedRejectsWrongOrder(t *testing.T) {
	d := sampleDeployment(newIdentifier(), newIdentifier())
	d.VerifyingKeys[0], d.VerifyingKeys[1] = d.VerifyingKeys[1], d.VerifyingKeys[0]
	assert.Error(t, d.CheckIsOrdered())
}

func TestDeploymentRoundTrip(t *testing.T) {
	d := sampleDeployment(newIdentifier())

	enc, err := d.MarshalBinary()
	require.NoError(t, err)

	decoded, err := ledgertypes.UnmarshalDeployment(enc)
	require.NoError(t, err)
	assert.Equal(t, d.ProgramID(), decoded.ProgramID())
	assert.Equal(t, d.Edition, decoded.Edition)
	assert.Len(t, decoded.VerifyingKeys, len(d.VerifyingKeys))
}
