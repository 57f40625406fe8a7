package memstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/maptest"
	"github.com/cuemby/ledgerstore/mapstore/memstore"
)

func TestMemstoreSuite(t *testing.T) {
	maptest.RunSuite(t, func(t *testing.T) mapstore.Store[string, string] {
		return memstore.New[string, string]()
	})
}

func TestInsertVisibleAfterFinish(t *testing.T) {
	s := memstore.New[string, int]()
	s.StartAtomic()
	require.NoError(t, s.Insert("a", 1))

	ok, err := s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.False(t, ok, "insert should not be visible before FinishAtomic")

	ok, err = s.ContainsSpeculative("a")
	require.NoError(t, err)
	assert.True(t, ok, "insert should be visible speculatively while staged")

	require.NoError(t, s.FinishAtomic())
	ok, err = s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAbortDiscardsEverything(t *testing.T) {
	s := memstore.New[string, int]()
	s.StartAtomic()
	require.NoError(t, s.Insert("a", 1))
	s.AbortAtomic()

	ok, err := s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.IsAtomicInProgress())
}

func TestCheckpointRewindUndoesOnlyLaterWrites(t *testing.T) {
	s := memstore.New[string, int]()
	s.StartAtomic()
	require.NoError(t, s.Insert("a", 1))
	s.AtomicCheckpoint()
	require.NoError(t, s.Insert("b", 2))
	s.AtomicRewind()

	_, staged, _ := s.GetPending("b")
	assert.False(t, staged)
	v, staged, _ := s.GetPending("a")
	assert.True(t, staged)
	assert.Equal(t, 1, v)

	require.NoError(t, s.FinishAtomic())
	_, ok, err := s.GetConfirmed("b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveStagesDeleteOfExistingKey(t *testing.T) {
	s := memstore.New[string, int]()
	require.NoError(t, s.Insert("a", 1))

	s.StartAtomic()
	require.NoError(t, s.Remove("a"))

	v, ok, err := s.GetSpeculative("a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, v)

	require.NoError(t, s.FinishAtomic())
	_, ok, err = s.GetConfirmed("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFinishAtomicWithoutOpenBatchIsNoop(t *testing.T) {
	s := memstore.New[string, int]()
	assert.False(t, s.IsAtomicInProgress())
	assert.NoError(t, s.FinishAtomic())
}

func TestIterConfirmedVisitsAllEntries(t *testing.T) {
	s := memstore.New[string, int]()
	require.NoError(t, s.Insert("a", 1))
	require.NoError(t, s.Insert("b", 2))

	seen := map[string]int{}
	s.IterConfirmed(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, seen)
}
