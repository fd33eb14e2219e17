package twt

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken computes the SHA-256 hash of a token, hex encoded.
//
// The hash is a storage/lookup convenience for callers who index issued
// tokens without keeping the token itself; it plays no part in generation
// or verification.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyTokenHash checks a token against an expected hash.
//
// Uses constant-time comparison to prevent timing attacks.
func VerifyTokenHash(token, expectedHash string) bool {
	actual := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}
