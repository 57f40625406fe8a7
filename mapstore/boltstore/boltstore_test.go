package boltstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/ledgerstore/mapstore"
	"github.com/cuemby/ledgerstore/mapstore/boltstore"
	"github.com/cuemby/ledgerstore/mapstore/maptest"
)

func stringCodec() mapstore.Codec[string] {
	return mapstore.Codec[string]{
		Marshal:   func(s string) ([]byte, error) { return []byte(s), nil },
		Unmarshal: func(b []byte) (string, error) { return string(b), nil },
	}
}

func openTestStore(t *testing.T) *boltstore.Store[string, string] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := boltstore.Open[string, string](db, "entries", stringCodec(), stringCodec())
	require.NoError(t, err)
	return s
}

func TestBoltstoreSuite(t *testing.T) {
	maptest.RunSuite(t, func(t *testing.T) mapstore.Store[string, string] {
		return openTestStore(t)
	})
}
