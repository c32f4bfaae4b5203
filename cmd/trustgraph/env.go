package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/veriot/trustgraph/pkg/admin"
	"github.com/veriot/trustgraph/pkg/decay"
	"github.com/veriot/trustgraph/pkg/processor"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
	"github.com/veriot/trustgraph/pkg/throttle"
)

// environment wires a state backend, the two transaction handlers and
// the submission guard for one CLI invocation.
type environment struct {
	store   state.Store
	events  *state.EventRecorder
	handler *processor.Handler
	admin   *admin.Handler
	guard   *throttle.Guard
	closer  func() error
}

func newEnvironment(cfg *Config) (*environment, error) {
	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	eval, err := decay.NewEvaluator()
	if err != nil {
		return nil, err
	}

	events := state.NewEventRecorder()
	sysCfg := record.SystemConfig{
		SecurityParameter:          cfg.System.SecurityParameter,
		MaximumTransactionInterval: cfg.System.MaximumTransactionInterval,
		MaximumTransactionRate:     cfg.System.MaximumTransactionRate,
		PunishmentThreshold:        cfg.System.PunishmentThreshold,
	}

	return &environment{
		store:   store,
		events:  events,
		handler: processor.NewHandler(store, events, state.TimeFunc(unixNow), eval),
		admin:   admin.NewHandler(store, eval),
		guard:   throttle.FromConfig(sysCfg),
		closer:  closer,
	}, nil
}

func openStore(cfg *Config) (state.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "memory":
		return state.NewMemStore(), nil, nil
	case "sqlite":
		s, err := state.OpenSQLiteStore(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		s := state.DialRedisStore(cfg.Store.RedisAddr, "")
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// apply JSON-encodes payload and hands it to the attestation handler.
func (e *environment) apply(action string, payload any, sender string) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return e.handler.Apply(state.Request{Action: action, Payload: raw, Sender: sender})
}

func unixNow() int64 { return time.Now().Unix() }

// Close releases the store backend, if it holds resources.
func (e *environment) Close() {
	if e.closer != nil {
		_ = e.closer()
	}
}
