// Package urlsafe provides URL-safe base64 transcoding for TWT wire formats.
//
// The TWT format uses standard base64 with `+` and `/` substituted by `-`
// and `_`, keeping the `=` padding. This differs from base64.RawURLEncoding
// (which drops padding), so the substitution is performed explicitly.
//
// Decoding is alphabet-lenient: input may use either the standard or the
// URL-safe alphabet, since only `-` and `_` are mapped back before the
// standard decode.
package urlsafe

import (
	"encoding/base64"
	"strings"
)

var (
	toURLSafe   = strings.NewReplacer("+", "-", "/", "_")
	fromURLSafe = strings.NewReplacer("-", "+", "_", "/")
)

// Encode encodes data as URL-safe base64 (standard alphabet with `+`→`-`,
// `/`→`_`, padding kept).
func Encode(data []byte) string {
	return toURLSafe.Replace(base64.StdEncoding.EncodeToString(data))
}

// EncodeText encodes a UTF-8 string as URL-safe base64.
func EncodeText(text string) string {
	return Encode([]byte(text))
}

// Decode decodes URL-safe base64 to raw bytes.
//
// Input using the standard alphabet is accepted as well; the substitution
// only maps `-` and `_` back and leaves `+` and `/` untouched.
func Decode(text string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(fromURLSafe.Replace(text))
}

// DecodeText decodes URL-safe base64 and returns the bytes as UTF-8 text.
func DecodeText(text string) (string, error) {
	data, err := Decode(text)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
