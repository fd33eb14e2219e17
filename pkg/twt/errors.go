package twt

import (
	"errors"
	"fmt"
)

// Error is a token codec error with a structured, machine-readable code.
// Two Errors compare equal under errors.Is when their codes match, so
// callers classify failures with errors.Is against the sentinels below and
// still reach the underlying cause via errors.Unwrap.
type Error struct {
	Code    string // Error code (e.g., "TW-SECR-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for code-based comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// ErrorCode extracts the code from an error if it is an Error.
func ErrorCode(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// Configuration errors: the caller handed the codec unusable inputs.
// These indicate programmer error, not an untrusted-token condition.
var (
	// ErrBadSecret indicates a malformed, missing, or wrong-length secret
	// bundle, at generation or verification.
	ErrBadSecret = NewError("TW-SECR-4000", "invalid secret bundle")

	// ErrBadValidAt indicates a generation-time validAt outside the
	// allowed range.
	ErrBadValidAt = NewError("TW-OPTS-4001", "validAt out of allowed range")

	// ErrBadExpiresAt indicates a generation-time expiresAt outside the
	// allowed range or before validAt.
	ErrBadExpiresAt = NewError("TW-OPTS-4002", "expiresAt out of allowed range")

	// ErrSerialize indicates the claims object cannot be serialized to
	// JSON.
	ErrSerialize = NewError("TW-CODC-5000", "claims serialization failed")
)

// Token errors: expected runtime conditions for untrusted input.
var (
	// ErrEncryption indicates a cipher operation failed, at generation or
	// verification.
	ErrEncryption = NewError("TW-CRYP-5001", "cipher operation failed")

	// ErrParse indicates the decrypted text is not valid JSON or its time
	// fields are not parseable. For classic tokens this is the primary
	// tamper signal.
	ErrParse = NewError("TW-CODC-4000", "token payload not parseable")

	// ErrInvalidTokenTime indicates structurally invalid embedded time
	// fields (non-positive, or validAt after expiresAt).
	ErrInvalidTokenTime = NewError("TW-TIME-4000", "invalid token time fields")

	// ErrNotYetValid indicates the token's validAt is in the future beyond
	// the clock drift tolerance.
	ErrNotYetValid = NewError("TW-TIME-4010", "token not yet valid")

	// ErrExpired indicates the token's expiresAt is in the past beyond the
	// clock drift tolerance.
	ErrExpired = NewError("TW-TIME-4011", "token has expired")
)
