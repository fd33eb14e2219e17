package twt

import "strconv"

// Reserved claim keys for the embedded validity window. Caller claims
// under these keys are overwritten at generation time.
const (
	claimValidAt   = "$"
	claimExpiresAt = "$$"
)

// Output claim keys. These names always win over KeyMap entries.
const (
	KeyValidAt   = "validAt"
	KeyExpiresAt = "expiresAt"
	KeyExpiresIn = "expiresIn"
)

// Claims is the application-defined key/value payload embedded in a token.
// Values must be JSON-serializable.
type Claims map[string]any

// mergeWindow copies the caller claims and injects the base-36 encoded
// validity window under the reserved keys. Last write wins in favor of the
// injected time fields.
func mergeWindow(claims Claims, validAt, expiresAt int64) map[string]any {
	merged := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		merged[k] = v
	}
	merged[claimValidAt] = strconv.FormatInt(validAt, 36)
	merged[claimExpiresAt] = strconv.FormatInt(expiresAt, 36)
	return merged
}

// remapClaims builds the claims object returned to the verifier's caller:
// caller keys renamed through keyMap, expiresIn attached (also subject to
// keyMap), and the reserved keys exposed as numeric validAt/expiresAt.
// The reserved output names are written last so they always win.
func remapClaims(raw map[string]any, keyMap map[string]string, validAt, expiresAt int64) Claims {
	out := make(Claims, len(raw)+1)
	for k, v := range raw {
		if k == claimValidAt || k == claimExpiresAt {
			continue
		}
		out[rename(k, keyMap)] = v
	}
	out[rename(KeyExpiresIn, keyMap)] = expiresAt - validAt
	out[KeyValidAt] = validAt
	out[KeyExpiresAt] = expiresAt
	return out
}

func rename(key string, keyMap map[string]string) string {
	if mapped, ok := keyMap[key]; ok {
		return mapped
	}
	return key
}
