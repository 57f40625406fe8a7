package mapstore_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgererr"
	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/memstore"
)

func TestScopeCommitsOnSuccess(t *testing.T) {
	s := memstore.New[string, string]()

	err := mapstore.Scope(s, func() error {
		return s.Insert("a", "1")
	})
	require.NoError(t, err)

	ok, err := s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScopeAbortsOnErrorAtTopLevel(t *testing.T) {
	s := memstore.New[string, string]()
	boom := fmt.Errorf("boom")

	err := mapstore.Scope(s, func() error {
		require.NoError(t, s.Insert("a", "1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.IsAtomicInProgress())

	ok, err := s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNestedScopeRewindsWithoutClosingOuterBatch(t *testing.T) {
	s := memstore.New[string, string]()
	boom := fmt.Errorf("boom")

	err := mapstore.Scope(s, func() error {
		require.NoError(t, s.Insert("outer", "1"))

		innerErr := mapstore.Scope(s, func() error {
			require.NoError(t, s.Insert("inner", "2"))
			return boom
		})
		assert.ErrorIs(t, innerErr, boom)
		assert.True(t, s.IsAtomicInProgress(), "outer batch should still be open after inner rewind")

		_, staged, _ := s.GetPending("inner")
		assert.False(t, staged)
		_, staged, _ = s.GetPending("outer")
		assert.True(t, staged)
		return nil
	})
	require.NoError(t, err)

	ok, err := s.ContainsConfirmed("outer")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.ContainsConfirmed("inner")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFinalizeAlwaysCommitsOrRollsBackFully(t *testing.T) {
	s := memstore.New[string, string]()

	err := mapstore.Finalize(s, func() error {
		return s.Insert("a", "1")
	})
	require.NoError(t, err)
	ok, err := s.ContainsConfirmed("a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFinalizeRejectsReentranceWithoutCommittingCallerBatch(t *testing.T) {
	s := memstore.New[string, string]()

	s.StartAtomic()
	require.NoError(t, s.Insert("outer", "1"))

	err := mapstore.Finalize(s, func() error {
		return s.Insert("inner", "2")
	})
	require.Error(t, err)
	kind, ok := ledgererr.Of(err)
	require.True(t, ok)
	assert.Equal(t, ledgererr.UsageViolation, kind)

	assert.True(t, s.IsAtomicInProgress(), "Finalize must not touch the caller's open batch")
	_, staged, _ := s.GetPending("inner")
	assert.False(t, staged, "Finalize must perform no writes when rejecting reentrance")
	_, staged, _ = s.GetPending("outer")
	assert.True(t, staged, "the caller's own staged write must be untouched")

	require.NoError(t, s.FinishAtomic())
	ok2, err := s.ContainsConfirmed("outer")
	require.NoError(t, err)
	assert.True(t, ok2)
	ok2, err = s.ContainsConfirmed("inner")
	require.NoError(t, err)
	assert.False(t, ok2)
}

type fakeParticipant struct {
	name       string
	failFinish bool
	finished   bool
	aborted    bool
}

func (f *fakeParticipant) StartAtomic()          {}
func (f *fakeParticipant) IsAtomicInProgress() bool { return false }
func (f *fakeParticipant) AtomicCheckpoint()     {}
func (f *fakeParticipant) AtomicRewind()         {}
func (f *fakeParticipant) AbortAtomic()          { f.aborted = true }
func (f *fakeParticipant) FinishAtomic() error {
	if f.failFinish {
		return fmt.Errorf("%s: finish failed", f.name)
	}
	f.finished = true
	return nil
}

func TestFanOutFinishReportsPartialCommit(t *testing.T) {
	first := &fakeParticipant{name: "first"}
	second := &fakeParticipant{name: "second", failFinish: true}

	err := mapstore.FanOutFinish([]mapstore.Participant{first, second})
	require.Error(t, err)
	kind, ok := ledgererr.Of(err)
	require.True(t, ok)
	assert.Equal(t, ledgererr.PartialCommit, kind)
	assert.True(t, first.finished)
}

func TestFanOutFinishPropagatesFirstParticipantError(t *testing.T) {
	first := &fakeParticipant{name: "first", failFinish: true}
	second := &fakeParticipant{name: "second"}

	err := mapstore.FanOutFinish([]mapstore.Participant{first, second})
	require.Error(t, err)
	_, ok := ledgererr.Of(err)
	assert.False(t, ok, "a failure on the first participant is not a partial commit")
}
