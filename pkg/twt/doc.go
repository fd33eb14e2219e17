// Package twt implements the TWT codec: compact, encrypted, time-bounded
// authentication tokens.
//
// A TWT is an opaque URL-safe base64 string whose plaintext is the UTF-8
// JSON of the caller's claims merged with the validity window. The window
// is embedded under two reserved keys, `$` (validAt) and `$$` (expiresAt),
// both base-36 encoded Unix seconds to keep tokens short. The payload is
// encrypted with AES-256-CTR under a caller-supplied secret bundle (see
// package secret), so token contents are unreadable without the key.
//
// Token Format (classic):
//
//   - Plaintext: UTF-8 JSON of claims + {"$": base36(validAt), "$$": base36(expiresAt)}
//   - Ciphertext: AES-256-CTR under the bundle's key and IV
//   - Wire: URL-safe base64 of the ciphertext
//
// Security note: the classic format carries no authentication tag. Tamper
// detection relies on garbage ciphertext failing to decrypt into valid
// JSON with well-formed time fields; tampering that happens to survive
// both checks would pass verification. This is preserved for wire
// compatibility. The opt-in Sealed mode (ChaCha20-Poly1305, incompatible
// wire format) closes the gap for callers who can accept the break.
//
// Every call is stateless and side-effect-free apart from reading the
// clock, so Generate and Verify may run concurrently without coordination.
package twt
