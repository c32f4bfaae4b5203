package record

import (
	"encoding/json"
	"fmt"

	"github.com/veriot/trustgraph/pkg/addressing"
	"github.com/veriot/trustgraph/pkg/state"
)

// fetchList reads and decodes one reference-database address. An
// address that was never written is an explicit "no records yet" state
// and decodes into the zero value; a read or decode failure is an
// internal fault tagged with the record kind.
func fetchList(store state.Store, address, kind string, out any) error {
	raw, ok, err := store.Get(address)
	if err != nil {
		return fmt.Errorf("%w: read %s list: %v", ErrInternal, kind, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s list: %v", ErrInternal, kind, err)
	}
	return nil
}

// FetchDeviceList returns every registered device.
func FetchDeviceList(store state.Store) ([]Device, error) {
	var list DeviceList
	if err := fetchList(store, addressing.DevicesAddress, "device", &list); err != nil {
		return nil, err
	}
	return list.Devices, nil
}

// FetchPolicyList returns every registered policy row.
func FetchPolicyList(store state.Store) ([]Policy, error) {
	var list PolicyList
	if err := fetchList(store, addressing.PolicyAddress, "policy", &list); err != nil {
		return nil, err
	}
	return list.Policies, nil
}

// FetchWarrantList returns every registered warrant.
func FetchWarrantList(store state.Store) ([]Warrant, error) {
	var list WarrantList
	if err := fetchList(store, addressing.WarrantsAddress, "warrant", &list); err != nil {
		return nil, err
	}
	return list.Warrants, nil
}

// FetchPropertiesList returns the attestation properties database.
func FetchPropertiesList(store state.Store) ([]Properties, error) {
	var list PropertiesList
	if err := fetchList(store, addressing.PropertiesAddress, "properties", &list); err != nil {
		return nil, err
	}
	return list.Properties, nil
}

// FetchSystemConfig returns the ledger system configuration. Unlike the
// list databases the configuration is a required singleton: a ledger
// without it cannot answer queries, so an unwritten address is an
// internal fault rather than an empty default.
func FetchSystemConfig(store state.Store) (SystemConfig, error) {
	raw, ok, err := store.Get(addressing.ConfigAddress)
	if err != nil {
		return SystemConfig{}, fmt.Errorf("%w: read system config: %v", ErrInternal, err)
	}
	if !ok {
		return SystemConfig{}, fmt.Errorf("%w: system config not loaded", ErrInternal)
	}
	var cfg SystemConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return SystemConfig{}, fmt.Errorf("%w: decode system config: %v", ErrInternal, err)
	}
	return cfg, nil
}

// SecurityParameter returns the maximum graph search depth.
func SecurityParameter(store state.Store) (int, error) {
	cfg, err := FetchSystemConfig(store)
	if err != nil {
		return 0, err
	}
	if cfg.SecurityParameter <= 0 {
		return 0, fmt.Errorf("%w: security parameter %d is not positive", ErrInternal, cfg.SecurityParameter)
	}
	return cfg.SecurityParameter, nil
}

// FindDevice returns the registered device with the given identity.
func FindDevice(store state.Store, identity string) (Device, bool, error) {
	devices, err := FetchDeviceList(store)
	if err != nil {
		return Device{}, false, err
	}
	for _, d := range devices {
		if d.DeviceIdentity == identity {
			return d, true, nil
		}
	}
	return Device{}, false, nil
}

// FindPolicy returns the policy row matching the full tuple.
func FindPolicy(store state.Store, deviceClass, attestationType, version, measurement string) (Policy, bool, error) {
	policies, err := FetchPolicyList(store)
	if err != nil {
		return Policy{}, false, err
	}
	for _, p := range policies {
		if p.DeviceClass == deviceClass &&
			p.AttestationType == attestationType &&
			p.Version == version &&
			p.Measurement == measurement {
			return p, true, nil
		}
	}
	return Policy{}, false, nil
}

// HasWarrant reports whether a warrant authorizes warrantor to vouch
// for warrantee for the given attestation type.
func HasWarrant(store state.Store, warrantor, warrantee, attestationType string) (bool, error) {
	warrants, err := FetchWarrantList(store)
	if err != nil {
		return false, err
	}
	for _, w := range warrants {
		if w.Warrantor == warrantor && w.Warrantee == warrantee && w.AttestationType == attestationType {
			return true, nil
		}
	}
	return false, nil
}

// FindProperties returns the properties row for an attestation type.
func FindProperties(store state.Store, attestationType string) (Properties, bool, error) {
	list, err := FetchPropertiesList(store)
	if err != nil {
		return Properties{}, false, err
	}
	for _, p := range list {
		if p.AttestationType == attestationType {
			return p, true, nil
		}
	}
	return Properties{}, false, nil
}
