// Package crypto fingerprints API keys so the plaintext never has to be stored.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Keys are high-entropy, so a light profile is enough.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 19 * 1024 // 19 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	// SaltLen is the per-key salt size in bytes.
	SaltLen = 16
	// MaskLen is how many leading characters of a key remain visible.
	MaskLen = 15
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashKey returns the Argon2id fingerprint of key using the provided salt.
func HashKey(key, salt []byte) []byte {
	return argon2.IDKey(key, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyKey verifies key against an expected fingerprint and salt.
func VerifyKey(key, salt, expected []byte) bool {
	if len(expected) == 0 {
		return false
	}
	got := HashKey(key, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}

// Mask keeps the first MaskLen characters of key and elides the rest.
func Mask(key string) string {
	if len(key) <= MaskLen {
		return key + "..."
	}
	return key[:MaskLen] + "..."
}
