// Package sealed implements the authenticated TWT payload cipher:
// ChaCha20-Poly1305 keyed by a secret bundle, with a random nonce prepended
// to the ciphertext.
//
// Sealed payloads are wire-incompatible with the classic CTR format. Unlike
// the classic cipher, decryption here fails outright on any tampering or
// key mismatch, so callers get a real integrity guarantee instead of the
// parse-failure heuristic.
package sealed

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/yndnr/twt-go/pkg/secret"
	"github.com/yndnr/twt-go/pkg/urlsafe"
)

// Seal encrypts and authenticates plaintext under the bundle's 32-byte key
// and returns nonce||ciphertext as URL-safe base64. The bundle IV is not
// used; every Seal call draws a fresh nonce.
func Seal(plaintext, encodedSecret string) (string, error) {
	aead, err := newAEAD(encodedSecret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return urlsafe.Encode(ciphertext), nil
}

// Open decrypts a sealed payload and verifies its authentication tag.
// Any tampering, truncation, or key mismatch fails.
func Open(encoded, encodedSecret string) (string, error) {
	data, err := urlsafe.Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	aead, err := newAEAD(encodedSecret)
	if err != nil {
		return "", err
	}

	if len(data) < aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short: %d bytes", len(data))
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open ciphertext: %w", err)
	}

	return string(plaintext), nil
}

func newAEAD(encodedSecret string) (cipher.AEAD, error) {
	salt, err := secret.Parse(encodedSecret)
	if err != nil {
		return nil, err
	}

	key, err := salt.Key()
	if err != nil {
		return nil, err
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	return chacha20poly1305.New(key)
}
