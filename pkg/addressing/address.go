// Package addressing maps namespace names and storage keys onto the
// fixed-length hex addresses used by the ledger state store.
//
// An address is the first 6 hex characters of SHA-512(namespace)
// followed by the first 64 hex characters of SHA-512(key), 70 hex
// characters in total. The namespace prefix keeps the transaction
// families collision-free against each other by construction.
package addressing

import (
	"crypto/sha512"
	"encoding/hex"
)

// Transaction family namespaces.
const (
	// AttestationFamily prefixes per-prover evidence list addresses.
	AttestationFamily = "attestation"
	// AdministrationFamily prefixes the reference-database addresses.
	AdministrationFamily = "administration"
)

// AddressLength is the length of every assembled address in hex characters.
const AddressLength = 70

// Well-known reference-database addresses, computed once at startup.
var (
	DevicesAddress    = Address(AdministrationFamily, "DEVICES")
	PolicyAddress     = Address(AdministrationFamily, "POLICY")
	WarrantsAddress   = Address(AdministrationFamily, "WARRANTS")
	PropertiesAddress = Address(AdministrationFamily, "PROPERTIES")
	ConfigAddress     = Address(AdministrationFamily, "CONFIG")
)

func hashHex(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Prefix returns the 6-character namespace prefix of a family name.
func Prefix(namespace string) string {
	return hashHex(namespace)[:6]
}

// Address assembles the storage address for a key within a namespace.
func Address(namespace, key string) string {
	return hashHex(namespace)[:6] + hashHex(key)[:64]
}

// EvidenceAddress returns the address of a prover's evidence list.
func EvidenceAddress(proverIdentity string) string {
	return Address(AttestationFamily, proverIdentity)
}
