package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashOwnerKey returns a filesystem-safe identifier for a session or owner ID.
func HashOwnerKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
