package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed or invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSecretTooShort is returned when the signing secret has fewer than 32 bytes.
	ErrSecretTooShort = errors.New("jwt secret must be at least 32 bytes")
)

// minSecretLen is the minimum HS256 secret length in bytes.
const minSecretLen = 32

// AccessClaims holds JWT claims for the access token. Subject is the user id.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenProvider issues and validates HS256 access tokens signed with a
// symmetric secret. It is stateless and safe for concurrent use.
type TokenProvider struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

// NewTokenProvider returns a TokenProvider signing with the given symmetric
// secret. issuer and audience are set on claims and checked on validation.
// A missing or short secret is a configuration error; callers treat it as
// fatal at startup.
func NewTokenProvider(secret []byte, issuer, audience string, accessTTL time.Duration) (*TokenProvider, error) {
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}
	return &TokenProvider{
		secret:    secret,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}, nil
}

// IssueAccess issues a short-lived access JWT for the given user with
// sub, email, name, and role claims. Returns the token string and its
// expiration time.
func (p *TokenProvider) IssueAccess(userID, email, name, role string) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(p.accessTTL)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Name:  name,
		Role:  role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateAccess parses and validates the access token (signature, exp, iss, aud).
// Returns the claims, or ErrInvalidToken.
func (p *TokenProvider) ValidateAccess(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	audOk := false
	for _, a := range claims.Audience {
		if a == p.audience {
			audOk = true
			break
		}
	}
	if !audOk {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
