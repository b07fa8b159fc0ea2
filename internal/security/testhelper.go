package security

import "time"

// testSecret is a signing secret for unit tests only. Do not use in production.
const testSecret = "0123456789abcdef0123456789abcdef"

// NewTestTokenProvider returns a TokenProvider using an embedded test secret.
// For unit tests only. Callers must not use in production.
func NewTestTokenProvider() (*TokenProvider, error) {
	return NewTokenProvider([]byte(testSecret), "test-issuer", "test-audience", 15*time.Minute)
}
