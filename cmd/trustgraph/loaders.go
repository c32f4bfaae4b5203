package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/veriot/trustgraph/pkg/admin"
	"github.com/veriot/trustgraph/pkg/record"
	"github.com/veriot/trustgraph/pkg/state"
)

// loadReferenceData replaces every configured reference database from
// its CSV export and writes the system configuration. Files left empty
// in the config are skipped.
func loadReferenceData(h *admin.Handler, cfg *Config) error {
	ctx := &loaderContext{admin: h}

	if cfg.Data.Devices != "" {
		if err := ctx.loadDevices(cfg.Data.Devices); err != nil {
			return err
		}
	}
	if cfg.Data.Policies != "" {
		if err := ctx.loadPolicies(cfg.Data.Policies); err != nil {
			return err
		}
	}
	if cfg.Data.Warrants != "" {
		if err := ctx.loadWarrants(cfg.Data.Warrants); err != nil {
			return err
		}
	}
	if cfg.Data.Properties != "" {
		if err := ctx.loadProperties(cfg.Data.Properties); err != nil {
			return err
		}
	}

	return ctx.submit(admin.ActionSubmitSystemConfig, record.SystemConfig{
		SecurityParameter:          cfg.System.SecurityParameter,
		MaximumTransactionInterval: cfg.System.MaximumTransactionInterval,
		MaximumTransactionRate:     cfg.System.MaximumTransactionRate,
		PunishmentThreshold:        cfg.System.PunishmentThreshold,
	})
}

type loaderContext struct {
	admin *admin.Handler
}

func (c *loaderContext) submit(action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.admin.Apply(state.Request{Action: action, Payload: raw, Sender: "operator"})
}

func (c *loaderContext) loadDevices(path string) error {
	rows, err := readCSV(path, "DeviceIdentity", "DeviceClass", "Version")
	if err != nil {
		return err
	}
	var list record.DeviceList
	for _, row := range rows {
		list.Devices = append(list.Devices, record.Device{
			DeviceIdentity: row["DeviceIdentity"],
			DeviceClass:    row["DeviceClass"],
			Version:        row["Version"],
		})
	}
	return c.submit(admin.ActionSubmitDevices, list)
}

func (c *loaderContext) loadPolicies(path string) error {
	rows, err := readCSV(path, "DeviceClass", "AttestationType", "Version", "Warrant", "Measurement")
	if err != nil {
		return err
	}
	var list record.PolicyList
	for _, row := range rows {
		list.Policies = append(list.Policies, record.Policy{
			DeviceClass:     row["DeviceClass"],
			AttestationType: row["AttestationType"],
			Version:         row["Version"],
			Warrant:         row["Warrant"],
			Measurement:     row["Measurement"],
		})
	}
	return c.submit(admin.ActionSubmitPolicy, list)
}

func (c *loaderContext) loadWarrants(path string) error {
	rows, err := readCSV(path, "Warrantor", "Warrantee", "AttestationType")
	if err != nil {
		return err
	}
	var list record.WarrantList
	for _, row := range rows {
		list.Warrants = append(list.Warrants, record.Warrant{
			Warrantor:       row["Warrantor"],
			Warrantee:       row["Warrantee"],
			AttestationType: row["AttestationType"],
		})
	}
	return c.submit(admin.ActionSubmitWarrants, list)
}

func (c *loaderContext) loadProperties(path string) error {
	rows, err := readCSV(path, "AttestationType", "ReliabilityScore", "TimeFunction", "xmin", "xmax")
	if err != nil {
		return err
	}
	var list record.PropertiesList
	for _, row := range rows {
		reliability, err := strconv.ParseFloat(row["ReliabilityScore"], 64)
		if err != nil {
			return fmt.Errorf("%s: reliability score %q: %w", path, row["ReliabilityScore"], err)
		}
		xmin, err := strconv.ParseInt(row["xmin"], 10, 64)
		if err != nil {
			return fmt.Errorf("%s: xmin %q: %w", path, row["xmin"], err)
		}
		xmax, err := strconv.ParseInt(row["xmax"], 10, 64)
		if err != nil {
			return fmt.Errorf("%s: xmax %q: %w", path, row["xmax"], err)
		}
		list.Properties = append(list.Properties, record.Properties{
			AttestationType:  row["AttestationType"],
			ReliabilityScore: reliability,
			TimeFunction:     row["TimeFunction"],
			XMin:             xmin,
			XMax:             xmax,
		})
	}
	return c.submit(admin.ActionSubmitProperties, list)
}

// readCSV reads a header-keyed CSV file and returns one map per row.
// Every required column must be present in the header.
func readCSV(path string, required ...string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for name, i := range index {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
