package payload

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashCanonical computes the SHA-256 digest of CanonicalizePayload(v),
// rendered as 64 lowercase hex characters. Used for save-dedup, audit
// hashing, and client/server dirty-tracking agreement - the client computes
// the same digest over the same canonical string.
func HashCanonical(v Value) string {
	sum := sha256.Sum256([]byte(CanonicalizePayload(v)))
	return hex.EncodeToString(sum[:])
}
