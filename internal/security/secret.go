package security

import (
	"errors"
	"os"
	"strings"
)

// ErrMissingSecret is returned when the JWT secret is empty.
var ErrMissingSecret = errors.New("jwt secret is not set")

// LoadSecret resolves the JWT signing secret from s, which is either the
// inline secret value or a path to a file containing it. File contents are
// trimmed of trailing whitespace. An empty value is a configuration error.
func LoadSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMissingSecret
	}
	if strings.HasPrefix(s, "file:") {
		b, err := os.ReadFile(strings.TrimPrefix(s, "file:"))
		if err != nil {
			return nil, err
		}
		return []byte(strings.TrimSpace(string(b))), nil
	}
	return []byte(s), nil
}
