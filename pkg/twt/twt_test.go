package twt

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/yndnr/twt-go/pkg/crypto/stream"
	"github.com/yndnr/twt-go/pkg/secret"
	"github.com/yndnr/twt-go/pkg/urlsafe"
)

func testSecret(t *testing.T) string {
	t.Helper()
	encoded, err := secret.Generate()
	if err != nil {
		t.Fatalf("secret.Generate() error = %v", err)
	}
	return encoded
}

func fixedClock(at int64) func() int64 {
	return func() int64 { return at }
}

// encryptRaw pushes arbitrary plaintext through the classic cipher so
// tests can exercise the parse and structural-time branches directly.
func encryptRaw(t *testing.T, plaintext, encodedSecret string) string {
	t.Helper()
	token, err := stream.Encrypt(plaintext, encodedSecret)
	if err != nil {
		t.Fatalf("stream.Encrypt() error = %v", err)
	}
	return token
}

func TestGenerateVerify_RoundTrip(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if got := claims["u"]; got != "test" {
		t.Errorf("claims[u] = %v, want %q", got, "test")
	}
	validAt, _ := claims[KeyValidAt].(int64)
	expiresAt, _ := claims[KeyExpiresAt].(int64)
	expiresIn, _ := claims[KeyExpiresIn].(int64)

	if validAt != now {
		t.Errorf("validAt = %d, want %d", validAt, now)
	}
	if expiresAt-validAt != DefaultWindowSeconds {
		t.Errorf("expiresAt - validAt = %d, want %d", expiresAt-validAt, DefaultWindowSeconds)
	}
	if expiresIn != DefaultWindowSeconds {
		t.Errorf("expiresIn = %d, want %d", expiresIn, DefaultWindowSeconds)
	}
}

func TestGenerateVerify_WallClock(t *testing.T) {
	// Same scenario without an injected clock: validAt must land within a
	// couple of seconds of the generation-time clock.
	encodedSecret := testSecret(t)

	before := NowSeconds()
	token, err := Generate(Claims{"u": "test"}, GenerateOptions{EncodedSecret: encodedSecret})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{EncodedSecret: encodedSecret})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	validAt, _ := claims[KeyValidAt].(int64)
	if validAt < before || validAt > before+2 {
		t.Errorf("validAt = %d, want within [%d, %d]", validAt, before, before+2)
	}
}

func TestVerify_KeyMap(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "alice", "role": "admin"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		KeyMap:        map[string]string{"u": "userID"},
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if got := claims["userID"]; got != "alice" {
		t.Errorf("claims[userID] = %v, want %q", got, "alice")
	}
	if _, ok := claims["u"]; ok {
		t.Error("claims should not expose the original key after remapping")
	}
	if got := claims["role"]; got != "admin" {
		t.Errorf("unmapped claim role = %v, want %q", got, "admin")
	}
}

func TestVerify_KeyMapCannotShadowWindowKeys(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "x"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// A caller claim mapped onto validAt must not displace the real value.
	claims, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		KeyMap:        map[string]string{"u": KeyValidAt},
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got, _ := claims[KeyValidAt].(int64); got != now {
		t.Errorf("validAt = %v, want %d (reserved keys override KeyMap)", claims[KeyValidAt], now)
	}
}

func TestGenerate_TimeBoundaries(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	tests := []struct {
		name    string
		opts    GenerateOptions
		wantErr *Error
	}{
		{
			name:    "validAt in the past",
			opts:    GenerateOptions{ValidAt: now - 1},
			wantErr: ErrBadValidAt,
		},
		{
			name:    "validAt more than a year forward",
			opts:    GenerateOptions{ValidAt: now + MaxWindowSeconds + 1},
			wantErr: ErrBadValidAt,
		},
		{
			name:    "expiresAt before validAt",
			opts:    GenerateOptions{ValidAt: now + 100, ExpiresAt: now + 50},
			wantErr: ErrBadExpiresAt,
		},
		{
			name:    "expiresAt in the past",
			opts:    GenerateOptions{ExpiresAt: now - 10},
			wantErr: ErrBadExpiresAt,
		},
		{
			name:    "window longer than a year",
			opts:    GenerateOptions{ValidAt: now, ExpiresAt: now + MaxWindowSeconds + 1},
			wantErr: ErrBadExpiresAt,
		},
		{
			name: "validAt exactly now",
			opts: GenerateOptions{ValidAt: now},
		},
		{
			name: "window exactly a year",
			opts: GenerateOptions{ValidAt: now, ExpiresAt: now + MaxWindowSeconds},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.EncodedSecret = encodedSecret
			opts.Now = fixedClock(now)

			_, err := Generate(Claims{"u": "test"}, opts)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Generate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_BadSecret(t *testing.T) {
	const now int64 = 1_700_000_000

	data, err := json.Marshal(secret.Salt{
		SecretKey: urlsafe.Encode(make([]byte, 16)),
		IV:        urlsafe.Encode(make([]byte, 16)),
	})
	if err != nil {
		t.Fatal(err)
	}
	shortKey := urlsafe.Encode(data)

	tests := []struct {
		name          string
		encodedSecret string
	}{
		{"empty", ""},
		{"not base64", "!!not base64!!"},
		{"not json", urlsafe.EncodeText("hello")},
		{"short key", shortKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(Claims{"u": "test"}, GenerateOptions{
				EncodedSecret: tt.encodedSecret,
				Now:           fixedClock(now),
			})
			if !errors.Is(err, ErrBadSecret) {
				t.Errorf("Generate() error = %v, want ErrBadSecret", err)
			}

			_, err = Verify("whatever", VerifyOptions{
				EncodedSecret: tt.encodedSecret,
				Now:           fixedClock(now),
			})
			if !errors.Is(err, ErrBadSecret) {
				t.Errorf("Verify() error = %v, want ErrBadSecret", err)
			}
		})
	}
}

func TestGenerate_UnserializableClaims(t *testing.T) {
	_, err := Generate(Claims{"ch": make(chan int)}, GenerateOptions{
		EncodedSecret: testSecret(t),
		Now:           fixedClock(1_700_000_000),
	})
	if !errors.Is(err, ErrSerialize) {
		t.Errorf("Generate() error = %v, want ErrSerialize", err)
	}
}

func TestVerify_TamperRejection(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	mutate := func(s string) string {
		if s[0] != 'A' {
			return "A" + s[1:]
		}
		return "B" + s[1:]
	}

	tests := []struct {
		name    string
		mutated string
	}{
		{"prefixed", "x" + token},
		{"first char flipped", mutate(token)},
		{"truncated", token[:len(token)/2]},
		{"not base64", "###" + token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.mutated, VerifyOptions{
				EncodedSecret: encodedSecret,
				Now:           fixedClock(now),
			})
			if err == nil {
				t.Fatal("Verify() should reject a mutated token")
			}
			if !errors.Is(err, ErrParse) && !errors.Is(err, ErrEncryption) &&
				!errors.Is(err, ErrInvalidTokenTime) {
				t.Errorf("Verify() error = %v, want a parse/encryption/time-structure kind", err)
			}
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{
		EncodedSecret: testSecret(t),
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = Verify(token, VerifyOptions{
		EncodedSecret: testSecret(t),
		Now:           fixedClock(now),
	})
	if err == nil {
		t.Fatal("Verify() with a different secret should fail")
	}
	if !errors.Is(err, ErrParse) && !errors.Is(err, ErrEncryption) {
		t.Errorf("Verify() error = %v, want parse or encryption kind", err)
	}
}

func TestVerify_ClockDrift(t *testing.T) {
	encodedSecret := testSecret(t)
	const issued int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(issued),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		name    string
		now     int64
		drift   int64
		wantErr *Error
	}{
		{"validAt within default drift", issued - 100, 0, nil},
		{"validAt at default drift edge", issued - DefaultClockDriftSeconds, 0, nil},
		{"validAt beyond default drift", issued - DefaultClockDriftSeconds - 1, 0, ErrNotYetValid},
		{"expiresAt within default drift", issued + DefaultWindowSeconds + 100, 0, nil},
		{"expiresAt beyond default drift", issued + DefaultWindowSeconds + DefaultClockDriftSeconds + 1, 0, ErrExpired},
		{"custom drift accepts more", issued - 500, 600, nil},
		{"custom drift still bounded", issued - 700, 600, ErrNotYetValid},
		{"negative drift disables tolerance", issued - 1, -1, ErrNotYetValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(token, VerifyOptions{
				EncodedSecret:              encodedSecret,
				AllowableClockDriftSeconds: tt.drift,
				Now:                        fixedClock(tt.now),
			})
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerify_StructurallyInvalidWindow(t *testing.T) {
	// Craft payloads directly through the cipher layer to hit the parse
	// and structural-time branches.
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	tests := []struct {
		name      string
		plaintext string
		wantErr   *Error
	}{
		{"not json", "garbage bytes", ErrParse},
		{"missing window", `{"u":"test"}`, ErrParse},
		{"non-text window", `{"$":123,"$$":456}`, ErrParse},
		{"unparseable base36", `{"$":"!!","$$":"!!"}`, ErrParse},
		{"zero validAt", `{"$":"0","$$":"zzzz"}`, ErrInvalidTokenTime},
		{"negative expiresAt", `{"$":"10","$$":"-10"}`, ErrInvalidTokenTime},
		{"validAt after expiresAt", `{"$":"zzzz","$$":"10"}`, ErrInvalidTokenTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := encryptRaw(t, tt.plaintext, encodedSecret)
			_, err := Verify(token, VerifyOptions{
				EncodedSecret: encodedSecret,
				Now:           fixedClock(now),
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateVerify_Sealed(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Sealed:        true,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		Sealed:        true,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got := claims["u"]; got != "test" {
		t.Errorf("claims[u] = %v, want %q", got, "test")
	}

	// Sealed tokens fail authentication on any mutation.
	mutated := "A" + token[1:]
	if mutated == token {
		mutated = "B" + token[1:]
	}
	if _, err := Verify(mutated, VerifyOptions{
		EncodedSecret: encodedSecret,
		Sealed:        true,
		Now:           fixedClock(now),
	}); !errors.Is(err, ErrEncryption) {
		t.Errorf("Verify() error = %v, want ErrEncryption", err)
	}

	// A sealed token is not a valid classic token.
	if _, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	}); err == nil {
		t.Error("classic Verify() should reject a sealed token")
	}
}

func TestVerify_ConcreteScenario(t *testing.T) {
	// Generate with {u:"test"} and defaults, verify immediately.
	encodedSecret := testSecret(t)

	token, err := Generate(Claims{"u": "test"}, GenerateOptions{EncodedSecret: encodedSecret})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{EncodedSecret: encodedSecret})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims["u"] != "test" {
		t.Errorf("claims[u] = %v, want %q", claims["u"], "test")
	}
	validAt, _ := claims[KeyValidAt].(int64)
	expiresAt, _ := claims[KeyExpiresAt].(int64)
	if expiresAt-validAt != DefaultWindowSeconds {
		t.Errorf("expiresAt - validAt = %d, want %d", expiresAt-validAt, DefaultWindowSeconds)
	}
	if claims[KeyExpiresIn] != DefaultWindowSeconds {
		t.Errorf("expiresIn = %v, want %d", claims[KeyExpiresIn], DefaultWindowSeconds)
	}
}

func TestGenerate_CallerWindowKeysOverwritten(t *testing.T) {
	encodedSecret := testSecret(t)
	const now int64 = 1_700_000_000

	// Caller claims under the reserved keys must lose to the injected
	// window fields.
	token, err := Generate(Claims{"$": "spoofed", "$$": "spoofed"}, GenerateOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := Verify(token, VerifyOptions{
		EncodedSecret: encodedSecret,
		Now:           fixedClock(now),
	})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got, _ := claims[KeyValidAt].(int64); got != now {
		t.Errorf("validAt = %v, want %d", claims[KeyValidAt], now)
	}
}
