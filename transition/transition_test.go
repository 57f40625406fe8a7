package transition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/mapstore/memstore"
	"github.com/cuemby/ledgerstore/transition"
)

func newStore() *transition.Store {
	return transition.New(memstore.New[ledgertypes.TransitionID, ledgertypes.Transition]())
}

func sampleTransition() ledgertypes.Transition {
	var id ledgertypes.TransitionID
	id[0] = 1
	return ledgertypes.NewTransition(id, []byte("payload"))
}

func TestInsertGetRoundTrip(t *testing.T) {
	s := newStore()
	tr := sampleTransition()
	require.NoError(t, s.Insert(tr))

	got, err := s.Get(tr.ID())
	require.NoError(t, err)
	assert.True(t, tr.Equal(got))

	ok, err := s.Contains(tr.ID())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := newStore()
	var id ledgertypes.TransitionID
	id[0] = 9
	_, err := s.Get(id)
	require.Error(t, err)
	kind, ok := ledgererr.Of(err)
	require.True(t, ok)
	assert.Equal(t, ledgererr.NotFound, kind)
}

func TestRemoveDeletes(t *testing.T) {
	s := newStore()
	tr := sampleTransition()
	require.NoError(t, s.Insert(tr))
	require.NoError(t, s.Remove(tr.ID()))

	ok, err := s.Contains(tr.ID())
	require.NoError(t, err)
	assert.False(t, ok)
}
