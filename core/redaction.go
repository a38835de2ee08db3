package core

import "strings"

const RedactedValue = "[REDACTED]"

// credentialFragments mark log keys that may carry handshake secrets.
var credentialFragments = []string{"password", "secret", "token", "phone", "code", "authorization", "credential"}

// traceableKeys are never redacted even when they contain a fragment.
var traceableKeys = map[string]struct{}{
	"identity":     {},
	"stage":        {},
	"state":        {},
	"status":       {},
	"errcode":      {},
	"failure_kind": {},
	"account_id":   {},
	"trace_id":     {},
	"request_id":   {},
}

// RedactSensitiveMap returns a copy of metadata with credential fragments
// replaced by RedactedValue. Nested maps and slices are walked.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if isCredentialKey(key) {
			out[key] = RedactedValue
			continue
		}
		out[key] = redactNested(value)
	}
	return out
}

func redactNested(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return RedactSensitiveMap(typed)
	case []any:
		items := make([]any, 0, len(typed))
		for _, item := range typed {
			items = append(items, redactNested(item))
		}
		return items
	}
	return value
}

func isCredentialKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	if _, ok := traceableKeys[key]; ok {
		return false
	}
	for _, fragment := range credentialFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}
