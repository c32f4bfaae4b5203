// Package record defines the ledger record schemas shared by the
// attestation and administration transaction families, their JSON
// round-trip codecs, and typed read-only accessors over the state
// store at the well-known reference-database addresses.
package record

// Device is one registered IoT device. Registered once by the
// administration family; read-only for the attestation core.
type Device struct {
	DeviceIdentity string `json:"device_identity"`
	DeviceClass    string `json:"device_class"`
	Version        string `json:"version"`
}

// Policy authorizes one (class, attestation type, version, measurement)
// tuple and states whether a warrant relationship is mandatory.
type Policy struct {
	DeviceClass     string `json:"device_class"`
	AttestationType string `json:"attestation_type"`
	Version         string `json:"version"`
	Warrant         string `json:"warrant"` // "true" or "false"
	Measurement     string `json:"measurement"`
}

// RequiresWarrant reports whether the policy demands a warrant
// relationship between verifier and prover.
func (p Policy) RequiresWarrant() bool {
	return p.Warrant == "true"
}

// Warrant is a standing authorization for the warrantor to vouch for
// the warrantee for one attestation type.
type Warrant struct {
	Warrantor       string `json:"warrantor"`
	Warrantee       string `json:"warrantee"`
	AttestationType string `json:"attestation_type"`
}

// Properties governs temporal decay of evidence trust for one
// attestation type. TimeFunction is a numeric expression over the
// single variable x, the evidence age in seconds.
type Properties struct {
	AttestationType  string  `json:"attestation_type"`
	ReliabilityScore float64 `json:"reliability_score"`
	TimeFunction     string  `json:"time_function"`
	XMin             int64   `json:"xmin"`
	XMax             int64   `json:"xmax"`
}

// SystemConfig carries the ledger-wide operating parameters. The
// attestation core consumes only SecurityParameter; the transaction
// metering fields are consumed by the hosting layer.
type SystemConfig struct {
	SecurityParameter          int   `json:"security_parameter"`
	MaximumTransactionInterval int64 `json:"maximum_transaction_interval"`
	MaximumTransactionRate     int   `json:"maximum_transaction_rate"`
	PunishmentThreshold        int   `json:"punishment_threshold"`
}

// Evidence is one accepted attestation claim: the verifier measured the
// prover and obtained Measurement for the given type and version. It
// represents a directed trust edge prover -> verifier. Timestamp is
// assigned by the core at acceptance time, never by the client.
type Evidence struct {
	VerifierIdentity     string `json:"verifier_identity"`
	ProverIdentity       string `json:"prover_identity"`
	AttestationType      string `json:"attestation_type"`
	ProverDeviceClass    string `json:"prover_device_class"`
	ProverVersion        string `json:"prover_version"`
	Measurement          string `json:"measurement"`
	IsWarrantAttestation bool   `json:"is_warrant_attestation"`
	Timestamp            int64  `json:"timestamp"`
}

// TrustQuery asks whether a path of attested trust with aggregate
// reliability of at least MinReliability exists from the trustee
// (prover) to the trustor (the querying verifier). Ephemeral input,
// never persisted.
type TrustQuery struct {
	Trustor        string  `json:"trustor"`
	Trustee        string  `json:"trustee"`
	MinReliability float64 `json:"min_reliability"`
}

// List wrappers, the unit of storage for every reference database and
// for the per-prover evidence lists.

type DeviceList struct {
	Devices []Device `json:"devices"`
}

type PolicyList struct {
	Policies []Policy `json:"policies"`
}

type WarrantList struct {
	Warrants []Warrant `json:"warrants"`
}

type PropertiesList struct {
	Properties []Properties `json:"properties"`
}

type EvidenceList struct {
	Evidences []Evidence `json:"evidences"`
}
