// Package secret implements the TWT secret bundle format.
//
// A bundle holds the symmetric key material for token encryption: a 32-byte
// secret key and a 16-byte IV. On the wire it is a URL-safe base64 wrapped
// JSON object:
//
//	{"secretKey":"<32 bytes, URL-safe base64>","iv":"<16 bytes, URL-safe base64>"}
//
// Bundles are generated once from a CSPRNG and supplied by the caller on
// every generate/verify call; they are never persisted by this module.
package secret

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/yndnr/twt-go/pkg/urlsafe"
)

// Key material sizes in bytes.
const (
	KeyLength = 32
	IVLength  = 16
)

// Salt is the decoded secret bundle. Both fields remain URL-safe base64
// encoded; use Key and IVBytes for the raw material.
type Salt struct {
	SecretKey string `json:"secretKey"`
	IV        string `json:"iv"`
}

// Generate produces a fresh encoded secret bundle: 32 random key bytes and
// 16 random IV bytes, each URL-safe base64 encoded, wrapped in a JSON
// object that is itself URL-safe base64 encoded.
//
// Entropy exhaustion is the only failure mode and is fatal to the call.
func Generate() (string, error) {
	key := make([]byte, KeyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}

	iv := make([]byte, IVLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	salt := Salt{
		SecretKey: urlsafe.Encode(key),
		IV:        urlsafe.Encode(iv),
	}

	data, err := json.Marshal(salt)
	if err != nil {
		return "", fmt.Errorf("marshal salt: %w", err)
	}

	return urlsafe.Encode(data), nil
}

// Parse decodes an encoded secret bundle.
//
// Malformed base64 or JSON propagates as an error so callers can classify
// it as a configuration problem rather than a token problem. Parse does not
// check key material lengths; use Validate for that.
func Parse(encoded string) (*Salt, error) {
	text, err := urlsafe.DecodeText(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}

	var salt Salt
	if err := json.Unmarshal([]byte(text), &salt); err != nil {
		return nil, fmt.Errorf("parse salt: %w", err)
	}

	return &salt, nil
}

// Key returns the raw secret key bytes.
func (s *Salt) Key() ([]byte, error) {
	key, err := urlsafe.Decode(s.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	return key, nil
}

// IVBytes returns the raw IV bytes.
func (s *Salt) IVBytes() ([]byte, error) {
	iv, err := urlsafe.Decode(s.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	return iv, nil
}

// Validate checks that the bundle decodes to exactly 32 key bytes and
// 16 IV bytes.
func (s *Salt) Validate() error {
	key, err := s.Key()
	if err != nil {
		return err
	}
	if len(key) != KeyLength {
		return fmt.Errorf("secret key must be %d bytes, got %d", KeyLength, len(key))
	}

	iv, err := s.IVBytes()
	if err != nil {
		return err
	}
	if len(iv) != IVLength {
		return fmt.Errorf("iv must be %d bytes, got %d", IVLength, len(iv))
	}

	return nil
}
