package record

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Digest returns the canonical content digest of the evidence, a
// SHA-256 over its RFC 8785 (JCS) canonicalized JSON encoding. Two
// evidence records are structurally equal iff their digests match;
// deletion uses this to find every stored copy of an entry.
func (e Evidence) Digest() (string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode evidence: %w", err)
	}
	canon, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize evidence: %w", err)
	}
	sum := sha256.Sum256(canon)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
