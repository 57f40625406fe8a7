// Package maptest runs one shared battery of behavioral checks against
// any mapstore.Store[string,string] implementation, so memstore,
// boltstore and lsmstore are all held to the same contract instead of
// each getting its own bespoke copy of the same assertions.
package maptest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/mapstore"
)

// Factory builds a fresh, empty store for one test case. Backends that
// need a temp directory (boltstore, lsmstore) close over t.TempDir() in
// their Factory implementation and register a cleanup to close the
// underlying handle.
type Factory func(t *testing.T) mapstore.Store[string, string]

// RunSuite exercises the full batch protocol and read-view contract
// against a store built by factory. Call it once per backend from that
// backend's own test file.
func RunSuite(t *testing.T, factory Factory) {
	t.Run("InsertCommitsOnlyAfterFinish", func(t *testing.T) {
		s := factory(t)
		s.StartAtomic()
		require.NoError(t, s.Insert("k", "v"))

		ok, err := s.ContainsConfirmed("k")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.FinishAtomic())
		ok, err = s.ContainsConfirmed("k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("SpeculativeViewSeesStagedWrites", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Insert("k", "v1"))
		s.StartAtomic()
		require.NoError(t, s.Insert("k", "v2"))

		v, ok, err := s.GetSpeculative("k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "v2", v)

		v, ok, err = s.GetConfirmed("k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "v1", v)
	})

	t.Run("SpeculativeViewSeesStagedRemoval", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Insert("k", "v1"))
		s.StartAtomic()
		require.NoError(t, s.Remove("k"))

		_, ok, err := s.GetSpeculative("k")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetConfirmed("k")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AbortDiscardsBatch", func(t *testing.T) {
		s := factory(t)
		s.StartAtomic()
		require.NoError(t, s.Insert("k", "v"))
		s.AbortAtomic()

		assert.False(t, s.IsAtomicInProgress())
		ok, err := s.ContainsConfirmed("k")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("CheckpointRewindUndoesOnlyLaterWrites", func(t *testing.T) {
		s := factory(t)
		s.StartAtomic()
		require.NoError(t, s.Insert("a", "1"))
		s.AtomicCheckpoint()
		require.NoError(t, s.Insert("b", "2"))
		s.AtomicRewind()

		_, staged, _ := s.GetPending("b")
		assert.False(t, staged)
		v, staged, _ := s.GetPending("a")
		require.True(t, staged)
		assert.Equal(t, "1", v)

		require.NoError(t, s.FinishAtomic())
		_, ok, err := s.GetConfirmed("b")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = s.GetConfirmed("a")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NestedCheckpointsRewindIndependently", func(t *testing.T) {
		s := factory(t)
		s.StartAtomic()
		require.NoError(t, s.Insert("a", "1"))
		s.AtomicCheckpoint()
		require.NoError(t, s.Insert("b", "2"))
		s.AtomicCheckpoint()
		require.NoError(t, s.Insert("c", "3"))

		s.AtomicRewind()
		_, staged, _ := s.GetPending("c")
		assert.False(t, staged)
		_, staged, _ = s.GetPending("b")
		assert.True(t, staged)

		s.AtomicRewind()
		_, staged, _ = s.GetPending("b")
		assert.False(t, staged)
		_, staged, _ = s.GetPending("a")
		assert.True(t, staged)

		require.NoError(t, s.FinishAtomic())
	})

	t.Run("FinishAtomicIsAllOrNothingOnDurableState", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Insert("existing", "orig"))

		s.StartAtomic()
		require.NoError(t, s.Insert("existing", "updated"))
		require.NoError(t, s.Insert("new", "v"))
		require.NoError(t, s.FinishAtomic())

		v, ok, err := s.GetConfirmed("existing")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "updated", v)
		_, ok, err = s.GetConfirmed("new")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("IterConfirmedVisitsInsertedKeys", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Insert("a", "1"))
		require.NoError(t, s.Insert("b", "2"))

		seen := map[string]string{}
		s.IterConfirmed(func(k, v string) bool {
			seen[k] = v
			return true
		})
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, seen)
	})

	t.Run("KeysAndValuesConfirmedMatchIterConfirmed", func(t *testing.T) {
		s := factory(t)
		require.NoError(t, s.Insert("a", "1"))
		require.NoError(t, s.Insert("b", "2"))

		var keys []string
		s.KeysConfirmed(func(k string) bool {
			keys = append(keys, k)
			return true
		})
		assert.ElementsMatch(t, []string{"a", "b"}, keys)

		var values []string
		s.ValuesConfirmed(func(v string) bool {
			values = append(values, v)
			return true
		})
		assert.ElementsMatch(t, []string{"1", "2"}, values)
	})
}
