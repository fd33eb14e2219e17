// Package stream implements the classic TWT payload cipher: AES-256 in
// counter mode, keyed by a secret bundle.
//
// CTR mode produces no authentication tag. A tampered or wrongly-keyed
// ciphertext decrypts without error into garbage; detecting that is the
// caller's job (the token layer treats a failed JSON parse of the decrypted
// text as the tamper signal). Callers who need real integrity should use
// the sealed cipher instead, at the cost of wire compatibility.
package stream

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/yndnr/twt-go/pkg/secret"
	"github.com/yndnr/twt-go/pkg/urlsafe"
)

// Encrypt runs plaintext through AES-256-CTR keyed by the encoded secret
// bundle and returns the ciphertext as URL-safe base64.
func Encrypt(plaintext, encodedSecret string) (string, error) {
	stream, err := newStream(encodedSecret)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, []byte(plaintext))

	return urlsafe.Encode(ciphertext), nil
}

// Decrypt reverses Encrypt: decodes the URL-safe base64 ciphertext,
// decrypts it with the same key and IV, and returns the result as UTF-8
// text.
//
// Decrypt fails only on undecodable input or unusable key material; with a
// well-formed bundle and valid base64 it always "succeeds", whether or not
// the output is meaningful.
func Decrypt(encoded, encodedSecret string) (string, error) {
	ciphertext, err := urlsafe.Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	stream, err := newStream(encodedSecret)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)

	return string(plaintext), nil
}

// newStream parses the bundle and builds the CTR key stream.
func newStream(encodedSecret string) (cipher.Stream, error) {
	salt, err := secret.Parse(encodedSecret)
	if err != nil {
		return nil, err
	}

	key, err := salt.Key()
	if err != nil {
		return nil, err
	}
	if len(key) != secret.KeyLength {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", secret.KeyLength, len(key))
	}

	iv, err := salt.IVBytes()
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	return cipher.NewCTR(block, iv), nil
}
