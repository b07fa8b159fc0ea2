package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// refreshTokenBytes is the entropy of a refresh token (256 bits).
const refreshTokenBytes = 32

// NewRefreshToken returns an opaque refresh token: 32 cryptographically
// random bytes, base64-encoded. The token carries no structure and is not
// predictable from previously issued tokens.
func NewRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashRefreshToken returns a SHA-256 hash of the refresh token string, hex-encoded.
// Used for storing and comparing refresh tokens without storing the raw token.
func HashRefreshToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// RefreshTokenHashEqual performs constant-time comparison of the provided token's hash
// with the stored hash. Returns true only if they match.
func RefreshTokenHashEqual(providedToken, storedHash string) bool {
	providedHash := HashRefreshToken(providedToken)
	return subtle.ConstantTimeCompare([]byte(providedHash), []byte(storedHash)) == 1
}
