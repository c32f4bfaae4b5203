package admin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

func newTestHandler(t *testing.T) (*Handler, *state.MemStore) {
	t.Helper()
	st := state.NewMemStore()
	eval, err := decay.NewEvaluator()
	require.NoError(t, err)
	return NewHandler(st, eval), st
}

func apply(t *testing.T, h *Handler, action string, payload any) error {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return h.Apply(state.Request{Action: action, Payload: raw, Sender: "admin"})
}

func TestSubmitDevicesRoundTrip(t *testing.T) {
	h, st := newTestHandler(t)

	devices := []record.Device{
		{DeviceIdentity: "A", DeviceClass: "classX", Version: "1.0.0"},
		{DeviceIdentity: "B", DeviceClass: "classY", Version: "2.1.3"},
	}
	require.NoError(t, apply(t, h, ActionSubmitDevices, record.DeviceList{Devices: devices}))

	got, ok, err := record.FindDevice(st, "B")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "classY", got.DeviceClass)
}

func TestSubmitDevicesReplacesWholesale(t *testing.T) {
	h, st := newTestHandler(t)

	require.NoError(t, apply(t, h, ActionSubmitDevices, record.DeviceList{Devices: []record.Device{
		{DeviceIdentity: "A", DeviceClass: "classX", Version: "1.0.0"},
	}}))
	require.NoError(t, apply(t, h, ActionSubmitDevices, record.DeviceList{Devices: []record.Device{
		{DeviceIdentity: "B", DeviceClass: "classY", Version: "1.0.0"},
	}}))

	_, ok, err := record.FindDevice(st, "A")
	require.NoError(t, err)
	assert.False(t, ok, "earlier device list should be fully replaced")
}

func TestSubmitDevicesRejectsBadVersion(t *testing.T) {
	h, _ := newTestHandler(t)

	err := apply(t, h, ActionSubmitDevices, record.DeviceList{Devices: []record.Device{
		{DeviceIdentity: "A", DeviceClass: "classX", Version: "latest"},
	}})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestSubmitDevicesRejectsSchemaViolation(t *testing.T) {
	h, _ := newTestHandler(t)

	err := h.Apply(state.Request{
		Action:  ActionSubmitDevices,
		Payload: []byte(`{"devices":[{"device_identity":"","device_class":"c","version":"1.0.0"}]}`),
		Sender:  "admin",
	})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)

	err = h.Apply(state.Request{Action: ActionSubmitDevices, Payload: []byte(`{"no_devices":[]}`), Sender: "admin"})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestSubmitPolicyRoundTrip(t *testing.T) {
	h, st := newTestHandler(t)

	require.NoError(t, apply(t, h, ActionSubmitPolicy, record.PolicyList{Policies: []record.Policy{
		{DeviceClass: "classX", AttestationType: "TPM-quote", Version: "1.0.0", Warrant: "false", Measurement: "m1"},
	}}))

	got, ok, err := record.FindPolicy(st, "classX", "TPM-quote", "1.0.0", "m1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.RequiresWarrant())
}

func TestSubmitPolicyRejectsBadWarrantFlag(t *testing.T) {
	h, _ := newTestHandler(t)

	err := h.Apply(state.Request{
		Action: ActionSubmitPolicy,
		Payload: []byte(`{"policies":[{"device_class":"c","attestation_type":"t",` +
			`"version":"1.0.0","warrant":"maybe","measurement":"m"}]}`),
		Sender: "admin",
	})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestSubmitWarrantsRoundTrip(t *testing.T) {
	h, st := newTestHandler(t)

	require.NoError(t, apply(t, h, ActionSubmitWarrants, record.WarrantList{Warrants: []record.Warrant{
		{Warrantor: "B", Warrantee: "A", AttestationType: "t"},
	}}))

	ok, err := record.HasWarrant(st, "B", "A", "t")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = record.HasWarrant(st, "A", "B", "t")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmitPropertiesCompilesTimeFunction(t *testing.T) {
	h, st := newTestHandler(t)

	require.NoError(t, apply(t, h, ActionSubmitProperties, record.PropertiesList{Properties: []record.Properties{
		{AttestationType: "t", ReliabilityScore: 0.9, TimeFunction: "1.0 - x / 100.0", XMin: 10, XMax: 100},
	}}))

	got, ok, err := record.FindProperties(st, "t")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(10), got.XMin)
}

func TestSubmitPropertiesRejectsBrokenTimeFunction(t *testing.T) {
	h, _ := newTestHandler(t)

	err := apply(t, h, ActionSubmitProperties, record.PropertiesList{Properties: []record.Properties{
		{AttestationType: "t", ReliabilityScore: 0.9, TimeFunction: "system(x)", XMin: 10, XMax: 100},
	}})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestSubmitPropertiesRejectsInvertedBounds(t *testing.T) {
	h, _ := newTestHandler(t)

	err := apply(t, h, ActionSubmitProperties, record.PropertiesList{Properties: []record.Properties{
		{AttestationType: "t", ReliabilityScore: 0.9, TimeFunction: "1.0", XMin: 100, XMax: 10},
	}})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestSubmitSystemConfigRoundTrip(t *testing.T) {
	h, st := newTestHandler(t)

	require.NoError(t, apply(t, h, ActionSubmitSystemConfig, record.SystemConfig{
		SecurityParameter:          5,
		MaximumTransactionInterval: 60,
		MaximumTransactionRate:     10,
		PunishmentThreshold:        3,
	}))

	depth, err := record.SecurityParameter(st)
	require.NoError(t, err)
	assert.Equal(t, 5, depth)
}

func TestSubmitSystemConfigRejectsZeroSecurityParameter(t *testing.T) {
	h, _ := newTestHandler(t)

	err := apply(t, h, ActionSubmitSystemConfig, record.SystemConfig{SecurityParameter: 0})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	h, _ := newTestHandler(t)

	err := h.Apply(state.Request{Action: "submitEverything", Payload: []byte(`{}`), Sender: "admin"})
	require.ErrorIs(t, err, record.ErrInvalidTransaction)
}
