package twt

import "time"

// Window and drift constants, in seconds.
const (
	// DefaultWindowSeconds is the default validity window (30 days).
	DefaultWindowSeconds int64 = 2_592_000

	// MaxWindowSeconds bounds both how far forward validAt may sit from
	// now and how long the validity window may be (one year).
	MaxWindowSeconds int64 = 31_557_600

	// DefaultClockDriftSeconds is the default verification tolerance for
	// clock skew between issuer and verifier.
	DefaultClockDriftSeconds int64 = 120
)

// NowSeconds returns the current Unix time in seconds.
func NowSeconds() int64 {
	return time.Now().Unix()
}

// GenerateOptions configures token generation.
type GenerateOptions struct {
	// EncodedSecret is the secret bundle produced by secret.Generate.
	// Required.
	EncodedSecret string

	// ValidAt is the start of the validity window in Unix seconds.
	// Zero means "now". Must not lie in the past or more than
	// MaxWindowSeconds in the future.
	ValidAt int64

	// ExpiresAt is the end of the validity window in Unix seconds.
	// Zero means ValidAt + DefaultWindowSeconds. Must not precede ValidAt
	// or exceed ValidAt + MaxWindowSeconds.
	ExpiresAt int64

	// Sealed selects the authenticated ChaCha20-Poly1305 format instead
	// of the classic AES-256-CTR format. Sealed tokens cannot be verified
	// as classic tokens and vice versa.
	Sealed bool

	// Now overrides the clock, mainly for tests. Nil means NowSeconds.
	Now func() int64
}

func (o GenerateOptions) now() int64 {
	if o.Now != nil {
		return o.Now()
	}
	return NowSeconds()
}

// VerifyOptions configures token verification.
type VerifyOptions struct {
	// EncodedSecret is the secret bundle the token was generated with.
	// Required.
	EncodedSecret string

	// KeyMap renames claim keys in the returned claims object. The
	// reserved time keys are always exposed as "validAt" and "expiresAt"
	// regardless of KeyMap.
	KeyMap map[string]string

	// AllowableClockDriftSeconds is the permitted slack when comparing
	// the verifier's clock to the token's window. Zero means
	// DefaultClockDriftSeconds; a negative value disables the tolerance
	// entirely.
	AllowableClockDriftSeconds int64

	// Sealed must match the mode the token was generated with.
	Sealed bool

	// Now overrides the clock, mainly for tests. Nil means NowSeconds.
	Now func() int64
}

func (o VerifyOptions) now() int64 {
	if o.Now != nil {
		return o.Now()
	}
	return NowSeconds()
}

func (o VerifyOptions) drift() int64 {
	switch {
	case o.AllowableClockDriftSeconds < 0:
		return 0
	case o.AllowableClockDriftSeconds == 0:
		return DefaultClockDriftSeconds
	default:
		return o.AllowableClockDriftSeconds
	}
}
