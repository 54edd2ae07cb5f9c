// Package fingerprint computes content digests for reference data snapshots.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"
)

// Record computes a hash of one record's fields, qualified by its kind.
// Each value is length-prefixed, so no field content can shift a boundary.
func Record(kind string, fields ...string) string {
	h := sha256.New()
	for _, f := range append([]string{kind}, fields...) {
		h.Write([]byte(strconv.Itoa(len(f))))
		h.Write([]byte{':'})
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil)[:16]) // 128-bit hash as hex
}

// Combine folds record hashes into a single digest.
// The result does not depend on the order of records.
func Combine(records []string) string {
	sorted := slices.Clone(records)
	slices.Sort(sorted)

	h := sha256.New()
	for _, r := range sorted {
		h.Write([]byte(r))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
