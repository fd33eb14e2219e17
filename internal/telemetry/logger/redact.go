package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted. TWT secret bundles and
// tokens are opaque base64 with no recognizable prefix, so redaction keys
// off the attribute name.
var sensitiveKeyPatterns = []string{
	"secret",
	"token",
	"key",
	"iv",
	"password",
	"credential",
}

// Encoded secret bundles are URL-safe base64 of a JSON object and always
// start with this prefix; values carrying it are masked regardless of the
// attribute name.
const encodedJSONPrefix = "eyJ"

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data and
// redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		if strings.HasPrefix(strVal, encodedJSONPrefix) {
			return slog.String(a.Key, MaskValue(strVal))
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	// Handle nested groups recursively.
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// MaskValue partially masks an opaque sensitive value, keeping the first
// and last few characters as a correlation hint.
func MaskValue(value string) string {
	if len(value) <= 10 {
		return redactedValue
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
