package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key builds a namespaced cache key, e.g. Key("qmk", "master/planck").
func Key(namespace, key string) string {
	return namespace + ":" + key
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
