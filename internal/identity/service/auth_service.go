package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"user-management-api/internal/audit"
	"user-management-api/internal/security"
	userdomain "user-management-api/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP status codes.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response does not reveal which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken covers unknown, expired, and already-rotated
	// tokens uniformly.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ValidationError reports a rejected input field; the handler maps it to a
// 400 with field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// TokenPair holds the outcome of a successful Login or Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetByRefreshTokenHash(ctx context.Context, hash string) (*userdomain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *userdomain.User) error
	SetRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID, currentHash, newHash string, expiresAt time.Time) (bool, error)
}

// AuthService implements register, login, and refresh-with-rotation.
// It is stateless apart from its dependencies and safe for concurrent use;
// the user row in the store is the only shared mutable state.
type AuthService struct {
	users      UserRepo
	hasher     *security.Hasher
	tokens     *security.TokenProvider
	refreshTTL time.Duration
	auditLog   audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLog may be nil; then no audit events are recorded.
func NewAuthService(users UserRepo, hasher *security.Hasher, tokens *security.TokenProvider, refreshTTL time.Duration, auditLog audit.AuditLogger) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		auditLog:   auditLog,
	}
}

// Register creates a user with the given email and password. The password is
// hashed before the row is written; the plaintext is never stored or logged.
// An empty role defaults to User. Returns ErrEmailAlreadyRegistered when the
// email is taken; no partial state is persisted in that case.
func (s *AuthService) Register(ctx context.Context, name, email, password string, role userdomain.Role) (*userdomain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role != "" && !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "unknown role"}
	}
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "register", "auth")
	return user, nil
}

// Login authenticates with email and password and returns a token pair.
// Unknown email and wrong password are indistinguishable to the caller.
// On success the user's previous refresh token, if any, is overwritten in
// the same write, so at most one refresh token is outstanding per user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		s.logEvent(ctx, "", "login_failure", "auth")
		return nil, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.refreshTTL)
	// Persist before returning so the old token is already invalid when the
	// client sees the new one.
	if err := s.users.SetRefreshToken(ctx, user.ID, security.HashRefreshToken(pair.RefreshToken), expiresAt); err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, "login", "auth")
	return pair, nil
}

// Refresh exchanges a valid, unexpired refresh token for a new token pair,
// rotating the refresh token. Unknown, expired, and already-rotated tokens
// all fail with ErrInvalidRefreshToken. The store write is a compare-and-swap
// on the old token hash, so of two concurrent refreshes with the same token
// exactly one wins; the loser gets ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	currentHash := security.HashRefreshToken(refreshToken)
	user, err := s.users.GetByRefreshTokenHash(ctx, currentHash)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasValidRefreshToken(time.Now().UTC()) {
		s.logEvent(ctx, "", "refresh_failure", "auth")
		return nil, ErrInvalidRefreshToken
	}
	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(s.refreshTTL)
	rotated, err := s.users.RotateRefreshToken(ctx, user.ID, currentHash, security.HashRefreshToken(pair.RefreshToken), expiresAt)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrInvalidRefreshToken
	}
	s.logEvent(ctx, user.ID, "token_refresh", "auth")
	return pair, nil
}

func (s *AuthService) issueTokens(user *userdomain.User) (*TokenPair, error) {
	accessToken, accessExp, err := s.tokens.IssueAccess(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
	}, nil
}

func (s *AuthService) logEvent(ctx context.Context, userID, action, resource string) {
	if s.auditLog == nil {
		return
	}
	s.auditLog.LogEvent(ctx, userID, action, resource, "")
}

func validateEmail(email string) error {
	if email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	const simpleEmail = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	ok, _ := regexp.MatchString(simpleEmail, email)
	if !ok {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	return nil
}
