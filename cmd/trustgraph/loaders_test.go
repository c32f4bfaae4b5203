package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriot/trustgraph/pkg/admin"
	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

func newLoaderFixture(t *testing.T) (*admin.Handler, *state.MemStore) {
	t.Helper()
	st := state.NewMemStore()
	eval, err := decay.NewEvaluator()
	require.NoError(t, err)
	return admin.NewHandler(st, eval), st
}

func testConfig() *Config {
	cfg := &Config{}
	cfg.Store.Backend = "memory"
	cfg.System.SecurityParameter = 3
	cfg.System.MaximumTransactionRate = 10
	cfg.System.MaximumTransactionInterval = 60
	cfg.System.PunishmentThreshold = 3
	return cfg
}

func TestLoadReferenceDataFromCSV(t *testing.T) {
	h, st := newLoaderFixture(t)
	dir := t.TempDir()

	cfg := testConfig()
	cfg.Data.Devices = writeFile(t, dir, "devices.csv",
		"DeviceIdentity,DeviceClass,Version\nA,classX,1.0.0\nB,classY,1.0.0\n")
	cfg.Data.Policies = writeFile(t, dir, "policies.csv",
		"DeviceClass,AttestationType,Version,Warrant,Measurement\nclassX,TPM-quote,1.0.0,false,m1\n")
	cfg.Data.Warrants = writeFile(t, dir, "warrants.csv",
		"Warrantor,Warrantee,AttestationType\nB,A,TPM-quote\n")
	cfg.Data.Properties = writeFile(t, dir, "properties.csv",
		"AttestationType,ReliabilityScore,TimeFunction,xmin,xmax\nTPM-quote,0.9,1.0 - x / 100.0,10,100\n")

	require.NoError(t, loadReferenceData(h, cfg))

	device, ok, err := record.FindDevice(st, "A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "classX", device.DeviceClass)

	_, ok, err = record.FindPolicy(st, "classX", "TPM-quote", "1.0.0", "m1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = record.HasWarrant(st, "B", "A", "TPM-quote")
	require.NoError(t, err)
	assert.True(t, ok)

	props, ok, err := record.FindProperties(st, "TPM-quote")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 0.9, props.ReliabilityScore, 1e-9)
	assert.Equal(t, int64(100), props.XMax)

	depth, err := record.SecurityParameter(st)
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
}

func TestLoadReferenceDataSkipsUnsetFiles(t *testing.T) {
	h, st := newLoaderFixture(t)

	require.NoError(t, loadReferenceData(h, testConfig()))

	_, ok, err := record.FindDevice(st, "A")
	require.NoError(t, err)
	assert.False(t, ok)

	depth, err := record.SecurityParameter(st)
	require.NoError(t, err)
	assert.Equal(t, 3, depth)
}

func TestLoadDevicesMissingColumn(t *testing.T) {
	h, _ := newLoaderFixture(t)
	dir := t.TempDir()

	cfg := testConfig()
	cfg.Data.Devices = writeFile(t, dir, "devices.csv", "DeviceIdentity,Version\nA,1.0.0\n")

	err := loadReferenceData(h, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DeviceClass")
}

func TestLoadPropertiesRejectsBadNumbers(t *testing.T) {
	h, _ := newLoaderFixture(t)
	dir := t.TempDir()

	cfg := testConfig()
	cfg.Data.Properties = writeFile(t, dir, "properties.csv",
		"AttestationType,ReliabilityScore,TimeFunction,xmin,xmax\nTPM-quote,high,1.0,10,100\n")

	require.Error(t, loadReferenceData(h, cfg))
}
