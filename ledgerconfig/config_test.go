package ledgerconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/ledgerstore/ledgerconfig"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaultsToMemoryBackend(t *testing.T) {
	path := writeConfig(t, "dataDir: /tmp/ledger\n")
	cfg, err := ledgerconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ledgerconfig.BackendMemory, cfg.Backend)
	assert.Equal(t, "/tmp/ledger", cfg.DataDir)
	assert.Nil(t, cfg.DevTag)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "backend: carrier-pigeon\n")
	_, err := ledgerconfig.Load(path)
	require.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "backend: memory\ndataDir: /tmp/from-file\n")
	t.Setenv("LEDGERSTORE_BACKEND", "bolt")
	t.Setenv("LEDGERSTORE_DATA_DIR", "/tmp/from-env")
	t.Setenv("LEDGERSTORE_DEV_TAG", "7")

	cfg, err := ledgerconfig.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ledgerconfig.BackendBolt, cfg.Backend)
	assert.Equal(t, "/tmp/from-env", cfg.DataDir)
	require.NotNil(t, cfg.DevTag)
	assert.Equal(t, uint16(7), *cfg.DevTag)
}
