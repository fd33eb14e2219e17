package twt

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/yndnr/twt-go/pkg/crypto/sealed"
	"github.com/yndnr/twt-go/pkg/crypto/stream"
	"github.com/yndnr/twt-go/pkg/secret"
)

// Generate builds a token carrying the given claims and the validity
// window from opts.
//
// Options are validated before any crypto work: validAt first, then
// expiresAt, then the secret bundle. The first violation wins and is
// returned as ErrBadValidAt, ErrBadExpiresAt, or ErrBadSecret.
func Generate(claims Claims, opts GenerateOptions) (string, error) {
	now := opts.now()

	validAt := opts.ValidAt
	if validAt == 0 {
		validAt = now
	}
	expiresAt := opts.ExpiresAt
	if expiresAt == 0 {
		expiresAt = validAt + DefaultWindowSeconds
	}

	if validAt < now || validAt > now+MaxWindowSeconds {
		return "", ErrBadValidAt.WithDetails(
			fmt.Sprintf("validAt=%d, now=%d", validAt, now))
	}
	if expiresAt < now || expiresAt < validAt || expiresAt > validAt+MaxWindowSeconds {
		return "", ErrBadExpiresAt.WithDetails(
			fmt.Sprintf("expiresAt=%d, validAt=%d, now=%d", expiresAt, validAt, now))
	}
	if err := validateSecret(opts.EncodedSecret); err != nil {
		return "", err
	}

	data, err := json.Marshal(mergeWindow(claims, validAt, expiresAt))
	if err != nil {
		return "", ErrSerialize.WithCause(err)
	}

	var token string
	if opts.Sealed {
		token, err = sealed.Seal(string(data), opts.EncodedSecret)
	} else {
		token, err = stream.Encrypt(string(data), opts.EncodedSecret)
	}
	if err != nil {
		return "", ErrEncryption.WithCause(err)
	}

	return token, nil
}

// Verify decrypts a token, checks its validity window against the clock
// with drift tolerance, and returns the claims with the window exposed as
// numeric validAt, expiresAt, and derived expiresIn fields.
//
// Failure classification, in pipeline order: ErrBadSecret (before the
// token is touched), ErrEncryption (undecryptable input), ErrParse
// (decrypted text is not well-formed; the tamper signal for classic
// tokens), ErrInvalidTokenTime (structurally broken window), and
// ErrNotYetValid / ErrExpired (window check outside tolerance).
func Verify(token string, opts VerifyOptions) (Claims, error) {
	if err := validateSecret(opts.EncodedSecret); err != nil {
		return nil, err
	}

	now := opts.now()
	drift := opts.drift()

	var plaintext string
	var err error
	if opts.Sealed {
		plaintext, err = sealed.Open(token, opts.EncodedSecret)
	} else {
		plaintext, err = stream.Decrypt(token, opts.EncodedSecret)
	}
	if err != nil {
		return nil, ErrEncryption.WithCause(err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(plaintext), &raw); err != nil {
		return nil, ErrParse.WithCause(err)
	}

	validAt, err := parseWindowField(raw, claimValidAt)
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseWindowField(raw, claimExpiresAt)
	if err != nil {
		return nil, err
	}

	if validAt <= 0 || expiresAt <= 0 || validAt > expiresAt {
		return nil, ErrInvalidTokenTime.WithDetails(
			fmt.Sprintf("validAt=%d, expiresAt=%d", validAt, expiresAt))
	}

	if validDelta := now - validAt; validDelta < 0 && -validDelta > drift {
		return nil, ErrNotYetValid.WithDetails(
			fmt.Sprintf("valid in %ds, tolerance %ds", -validDelta, drift))
	}
	if expireDelta := expiresAt - now; expireDelta < 0 && -expireDelta > drift {
		return nil, ErrExpired.WithDetails(
			fmt.Sprintf("expired %ds ago, tolerance %ds", -expireDelta, drift))
	}

	return remapClaims(raw, opts.KeyMap, validAt, expiresAt), nil
}

// parseWindowField reads a reserved time claim as base-36 text.
func parseWindowField(raw map[string]any, key string) (int64, error) {
	text, ok := raw[key].(string)
	if !ok {
		return 0, ErrParse.WithDetails(fmt.Sprintf("missing or non-text %q claim", key))
	}
	v, err := strconv.ParseInt(text, 36, 64)
	if err != nil {
		return 0, ErrParse.WithCause(err).WithDetails(fmt.Sprintf("bad %q claim", key))
	}
	return v, nil
}

// validateSecret enforces the bundle format before any crypto work.
func validateSecret(encodedSecret string) error {
	salt, err := secret.Parse(encodedSecret)
	if err != nil {
		return ErrBadSecret.WithCause(err)
	}
	if err := salt.Validate(); err != nil {
		return ErrBadSecret.WithCause(err)
	}
	return nil
}
