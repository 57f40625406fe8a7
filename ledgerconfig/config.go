// Package ledgerconfig loads the storage core's backend configuration
// from a YAML file: os.ReadFile followed by yaml.Unmarshal, with
// environment variables overriding whatever the file set.
package ledgerconfig

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BackendKind selects which mapstore implementation a schema is wired
// against.
type BackendKind string

const (
	BackendMemory BackendKind = "memory"
	BackendBolt   BackendKind = "bolt"
	BackendLSM    BackendKind = "lsm"
)

// Config is the on-disk shape of a ledger store deployment: which
// backend to use, where its data directory lives, and an optional
// dev-namespace tag.
type Config struct {
	Backend BackendKind `yaml:"backend"`
	DataDir string      `yaml:"dataDir"`
	DevTag  *uint16     `yaml:"devTag,omitempty"`
}

// Load reads path as YAML and applies LEDGERSTORE_-prefixed environment
// overrides on top.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ledgerconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("ledgerconfig: parse %s: %w", path, err)
	}

	if v := os.Getenv("LEDGERSTORE_BACKEND"); v != "" {
		cfg.Backend = BackendKind(v)
	}
	if v := os.Getenv("LEDGERSTORE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LEDGERSTORE_DEV_TAG"); v != "" {
		tag, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return Config{}, fmt.Errorf("ledgerconfig: parse LEDGERSTORE_DEV_TAG: %w", err)
		}
		t := uint16(tag)
		cfg.DevTag = &t
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	switch cfg.Backend {
	case BackendMemory, BackendBolt, BackendLSM:
	default:
		return Config{}, fmt.Errorf("ledgerconfig: unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}
