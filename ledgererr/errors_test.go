package ledgererr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/ledgerstore/ledgererr"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := ledgererr.Wrap(ledgererr.BackendIO, "boltstore", cause)

	assert.ErrorIs(t, err, cause)
	kind, ok := ledgererr.Of(err)
	assert.True(t, ok)
	assert.Equal(t, ledgererr.BackendIO, kind)
}

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := ledgererr.New(ledgererr.NotFound, "txstore", "no such transaction")
	assert.True(t, errors.Is(err, ledgererr.ErrNotFound))
	assert.False(t, errors.Is(err, ledgererr.ErrWrongKind))
}

func TestOfReturnsFalseForPlainError(t *testing.T) {
	_, ok := ledgererr.Of(fmt.Errorf("plain"))
	assert.False(t, ok)
}
