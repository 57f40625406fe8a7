package txstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/ledgerstore/ledgertypes"
	"github.com/cuemby/ledgerstore/txstore"
)

func openTestDB(t *testing.T) *bolt.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenPersistsAcrossReload(t *testing.T) {
	db := openTestDB(t)

	schema, err := txstore.Open(db)
	require.NoError(t, err)

	tx := sampleDeployTx()
	txID, err := schema.Insert(tx)
	require.NoError(t, err)

	// Re-wire a fresh Schema over the same db, as a process restart would.
	reopened, err := txstore.Open(db)
	require.NoError(t, err)

	got, ok, err := reopened.GetTransaction(txID, 0)
	require.NoError(t, err)
	require.True(t, ok)
	gotID, err := got.ID()
	require.NoError(t, err)
	assert.Equal(t, txID, gotID)

	require.NoError(t, reopened.Remove(txID))
	_, ok, err = schema.GetTransaction(txID, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenWithNoDevTagReportsNoDev(t *testing.T) {
	db := openTestDB(t)
	schema, err := txstore.Open(db)
	require.NoError(t, err)

	_, ok := schema.Dev()
	assert.False(t, ok)
	_, ok = schema.Deployment.Dev()
	assert.False(t, ok)
	_, ok = schema.Execution.Dev()
	assert.False(t, ok)
}

func TestOpenWithDevTagPropagatesToSchemaAndSubSchemas(t *testing.T) {
	db := openTestDB(t)
	schema, err := txstore.Open(db, 7)
	require.NoError(t, err)

	dev, ok := schema.Dev()
	require.True(t, ok)
	assert.Equal(t, uint16(7), dev)

	dev, ok = schema.Deployment.Dev()
	require.True(t, ok)
	assert.Equal(t, uint16(7), dev)

	dev, ok = schema.Execution.Dev()
	require.True(t, ok)
	assert.Equal(t, uint16(7), dev)
}

func TestOpenRoundTripsExecuteTransaction(t *testing.T) {
	db := openTestDB(t)
	schema, err := txstore.Open(db)
	require.NoError(t, err)

	tx := sampleExecuteTx()
	txID, err := schema.Insert(tx)
	require.NoError(t, err)

	kind, ok, err := schema.Kind(txID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ledgertypes.KindExecute, kind)

	got, ok, err := schema.GetTransaction(txID, ledgertypes.KindExecute)
	require.NoError(t, err)
	require.True(t, ok)
	gotID, err := got.ID()
	require.NoError(t, err)
	assert.Equal(t, txID, gotID)
}
