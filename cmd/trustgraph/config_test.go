package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trustgraph.yaml", `
store:
  backend: sqlite
  sqlite_path: /tmp/ledger.db
system:
  security_parameter: 4
  maximum_transaction_rate: 10
  maximum_transaction_interval: 60
  punishment_threshold: 3
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/ledger.db", cfg.Store.SQLitePath)
	assert.Equal(t, 4, cfg.System.SecurityParameter)
	assert.Equal(t, 10, cfg.System.MaximumTransactionRate)
}

func TestLoadConfigDefaultsToMemoryBackend(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trustgraph.yaml", `
system:
  security_parameter: 3
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadConfigRejectsZeroSecurityParameter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "trustgraph.yaml", `
store:
  backend: memory
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security_parameter")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
