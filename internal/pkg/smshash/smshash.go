package smshash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the one-way identity digest of a normalized phone number.
// It is the partition key for grant records, so the raw number never
// appears in the datastore.
func Hash(normalizedNumber string) string {
	sum := sha256.Sum256([]byte(normalizedNumber))
	return hex.EncodeToString(sum[:])
}
