package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// redactedPlaceholder is the string used to replace secret values in logs and serialization.
const redactedPlaceholder = "***REDACTED***"

// redactedJSON is the pre-computed JSON encoding of the redacted placeholder.
var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString is a string type that prevents accidental logging or serialization
// of sensitive values. It overrides String() and MarshalJSON() to return a redacted
// placeholder, ensuring secrets are never leaked through fmt functions or JSON output.
//
// The delegated OAuth2 access token carried by every dispatch request is held
// as a SecretString for its entire lifetime inside the service.
//
// Use Unmask() to retrieve the raw plaintext value when it is genuinely needed
// (e.g., constructing the Authorization header for the mail provider call).
type SecretString string

// String returns a redacted placeholder instead of the raw value.
// This is invoked by fmt.Sprintf, fmt.Println, and any other function
// that uses the fmt.Stringer interface.
func (s SecretString) String() string {
	return redactedPlaceholder
}

// MarshalJSON returns the redacted placeholder as a JSON string.
// This prevents secret values from being included in JSON-serialized
// config dumps, API responses, or structured log entries.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// Unmask returns the raw plaintext value of the secret.
// Usage of this method should be strictly audited and limited to cases
// where the actual secret value is required (e.g., attaching the bearer
// token to an outbound provider request).
func (s SecretString) Unmask() string {
	return string(s)
}

// Len returns the length of the underlying value. Token length is the one
// piece of shape information diagnostic logs are allowed to carry.
func (s SecretString) Len() int {
	return len(s)
}

// Fingerprint returns a fixed-length, non-reversible identifier for the secret
// (the first 8 hex characters of its SHA-256 digest). It is safe to log and
// lets operators correlate failures caused by the same credential without
// ever seeing its value. Empty secrets fingerprint to the empty string.
func (s SecretString) Fingerprint() string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:4])
}
