// Package admin implements the administration transaction family:
// wholesale replacement of the reference databases the attestation
// core consults. Every submission replaces the full list at its
// well-known address; the attestation core never writes these.
package admin

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/veriot/trustgraph/pkg/addressing"
	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// FamilyName of the administration transaction family.
const FamilyName = "administration"

// Actions accepted by the administration family.
const (
	ActionSubmitDevices      = "submitDevices"
	ActionSubmitPolicy       = "submitPolicy"
	ActionSubmitWarrants     = "submitWarrants"
	ActionSubmitProperties   = "submitProperties"
	ActionSubmitSystemConfig = "submitSystemConfig"
)

// Handler applies administration transactions.
type Handler struct {
	state state.Store
	decay *decay.Evaluator
}

// NewHandler creates an administration handler. The decay evaluator is
// used to compile submitted time functions at load time, so broken
// decay configuration is rejected here instead of failing a later
// trust query.
func NewHandler(st state.Store, eval *decay.Evaluator) *Handler {
	return &Handler{state: st, decay: eval}
}

// Apply executes one decoded administration transaction. Unrecognized
// actions are rejected as invalid input.
func (h *Handler) Apply(req state.Request) error {
	slog.Info("applying administration transaction", "action", req.Action, "sender", req.Sender)

	switch req.Action {
	case ActionSubmitDevices:
		return h.submitDevices(req.Payload)
	case ActionSubmitPolicy:
		return h.submitPolicy(req.Payload)
	case ActionSubmitWarrants:
		return h.submitWarrants(req.Payload)
	case ActionSubmitProperties:
		return h.submitProperties(req.Payload)
	case ActionSubmitSystemConfig:
		return h.submitSystemConfig(req.Payload)
	default:
		return fmt.Errorf("%w: unrecognized action %q", record.ErrInvalidTransaction, req.Action)
	}
}

func (h *Handler) submitDevices(payload []byte) error {
	var list record.DeviceList
	if err := decodeChecked(payload, deviceListSchema, &list); err != nil {
		return err
	}
	for _, d := range list.Devices {
		if _, err := semver.NewVersion(d.Version); err != nil {
			return fmt.Errorf("%w: device %q version %q is not a valid version",
				record.ErrInvalidTransaction, d.DeviceIdentity, d.Version)
		}
	}
	return h.write(addressing.DevicesAddress, list)
}

func (h *Handler) submitPolicy(payload []byte) error {
	var list record.PolicyList
	if err := decodeChecked(payload, policyListSchema, &list); err != nil {
		return err
	}
	for _, p := range list.Policies {
		if _, err := semver.NewVersion(p.Version); err != nil {
			return fmt.Errorf("%w: policy for class %q version %q is not a valid version",
				record.ErrInvalidTransaction, p.DeviceClass, p.Version)
		}
	}
	return h.write(addressing.PolicyAddress, list)
}

func (h *Handler) submitWarrants(payload []byte) error {
	var list record.WarrantList
	if err := decodeChecked(payload, warrantListSchema, &list); err != nil {
		return err
	}
	return h.write(addressing.WarrantsAddress, list)
}

func (h *Handler) submitProperties(payload []byte) error {
	var list record.PropertiesList
	if err := decodeChecked(payload, propertiesListSchema, &list); err != nil {
		return err
	}
	for _, p := range list.Properties {
		if p.XMin > p.XMax {
			return fmt.Errorf("%w: properties for %q violate xmin <= xmax (%d > %d)",
				record.ErrInvalidTransaction, p.AttestationType, p.XMin, p.XMax)
		}
		if err := h.decay.Compile(p.TimeFunction); err != nil {
			return fmt.Errorf("%w: time function for %q: %v",
				record.ErrInvalidTransaction, p.AttestationType, err)
		}
	}
	return h.write(addressing.PropertiesAddress, list)
}

func (h *Handler) submitSystemConfig(payload []byte) error {
	var cfg record.SystemConfig
	if err := decodeChecked(payload, systemConfigSchema, &cfg); err != nil {
		return err
	}
	return h.write(addressing.ConfigAddress, cfg)
}

func (h *Handler) write(address string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode reference data: %v", record.ErrInternal, err)
	}
	if err := h.state.Set(address, raw); err != nil {
		return fmt.Errorf("%w: write reference data: %v", record.ErrInternal, err)
	}
	slog.Info("reference database replaced", "address", address)
	return nil
}

// decodeChecked validates payload against the schema and decodes it
// into out.
func decodeChecked(payload []byte, schema *jsonschema.Schema, out any) error {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("%w: decode payload: %v", record.ErrInvalidTransaction, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: payload schema: %v", record.ErrInvalidTransaction, err)
	}
	return json.Unmarshal(payload, out)
}
