package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint derives a stable cache key from a profile. The Regenerate
// marker participates: a regenerate request hashes differently from the same
// base profile, which is what forces the cache bypass.
func (p UserProfile) Fingerprint() string {
	// Struct marshalling has a fixed field order, so the encoding is
	// canonical without extra work.
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
