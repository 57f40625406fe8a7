package lsmstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/lsmstore"
	"github.com/cuemby/ledgerstore/mapstore/maptest"
)

func stringCodec() mapstore.Codec[string] {
	return mapstore.Codec[string]{
		Marshal:   func(s string) ([]byte, error) { return []byte(s), nil },
		Unmarshal: func(b []byte) (string, error) { return string(b), nil },
	}
}

func openTestStore(t *testing.T) *lsmstore.Store[string, string] {
	t.Helper()
	s, err := lsmstore.Open[string, string]("lsmstore-test", t.TempDir(), "entries/", stringCodec(), stringCodec())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLsmstoreSuite(t *testing.T) {
	maptest.RunSuite(t, func(t *testing.T) mapstore.Store[string, string] {
		return openTestStore(t)
	})
}
