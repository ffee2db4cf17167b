package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// DomainSyntheticTechnology separates synthetic technology hashes from any
// other content hash. The version suffix allows a future algorithm change.
const DomainSyntheticTechnology = "bioindex/synthetic-technology/v1"

// SyntheticPrefix marks every synthetic technology ID. Formal technology IDs
// may not use it.
const SyntheticPrefix = "synthetic-"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SyntheticID derives the stable ID for a technology known only by name.
// Names that normalize to the same text share an ID.
func SyntheticID(name string) string {
	return SyntheticPrefix + hashWithDomain(DomainSyntheticTechnology, []byte(NormalizeName(name)))
}

// IsSyntheticID reports whether id is in the synthetic ID space.
func IsSyntheticID(id string) bool {
	return strings.HasPrefix(id, SyntheticPrefix)
}
