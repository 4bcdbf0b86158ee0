// Package fingerprint detects profile changes so the batch sweep can skip
// re-scoring records that have not moved since the last run.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Ramsey-B/aster/pkg/models"
)

// Generate produces a deterministic SHA256 fingerprint over the five profile
// fields. The record ID is excluded: two records with identical field values
// fingerprint identically regardless of identity.
func Generate(r models.Record) string {
	canonical, _ := json.Marshal([]string{
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Address,
	})
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:])
}

// HasChanged compares two fingerprints to detect changes
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
