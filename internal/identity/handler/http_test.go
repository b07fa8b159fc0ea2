package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"user-management-api/internal/identity/service"
	userdomain "user-management-api/internal/user/domain"
)

type fakeAuthService struct {
	registerUser *userdomain.User
	registerErr  error
	loginPair    *service.TokenPair
	loginErr     error
	refreshPair  *service.TokenPair
	refreshErr   error
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string, role userdomain.Role) (*userdomain.User, error) {
	return f.registerUser, f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*service.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	return f.refreshPair, f.refreshErr
}

func serve(t *testing.T, svc AuthService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	NewAuthHandler(svc).Routes(mux)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestRegister_Created(t *testing.T) {
	svc := &fakeAuthService{registerUser: &userdomain.User{
		ID: "u1", Name: "alice", Email: "alice@example.com", Role: userdomain.RoleUser,
		PasswordHash: "secret-hash",
	}}
	rr := serve(t, svc, http.MethodPost, "/auth/register",
		`{"name":"alice","email":"alice@example.com","password":"pw1"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["id"] != "u1" || resp["role"] != "User" {
		t.Errorf("response: %v", resp)
	}
	if strings.Contains(rr.Body.String(), "secret-hash") {
		t.Error("response leaks password hash")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &fakeAuthService{registerErr: service.ErrEmailAlreadyRegistered}
	rr := serve(t, svc, http.MethodPost, "/auth/register",
		`{"name":"alice","email":"alice@example.com","password":"pw1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestRegister_ValidationError(t *testing.T) {
	svc := &fakeAuthService{registerErr: &service.ValidationError{Field: "email", Message: "invalid email format"}}
	rr := serve(t, svc, http.MethodPost, "/auth/register",
		`{"name":"alice","email":"nope","password":"pw1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "email") {
		t.Errorf("body lacks field detail: %q", rr.Body.String())
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	rr := serve(t, &fakeAuthService{}, http.MethodPost, "/auth/register", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	svc := &fakeAuthService{loginPair: &service.TokenPair{
		AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(15 * time.Minute),
	}}
	rr := serve(t, svc, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"pw1"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["accessToken"] != "access" || resp["refreshToken"] != "refresh" {
		t.Errorf("response: %v", resp)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := &fakeAuthService{loginErr: service.ErrInvalidCredentials}
	rr := serve(t, svc, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestLogin_StorageErrorIsServerError(t *testing.T) {
	svc := &fakeAuthService{loginErr: errors.New("connection refused")}
	rr := serve(t, svc, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"pw1"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Error("response leaks internal error detail")
	}
}

func TestRefresh_ReturnsNewPair(t *testing.T) {
	svc := &fakeAuthService{refreshPair: &service.TokenPair{
		AccessToken: "access2", RefreshToken: "refresh2", ExpiresAt: time.Now().Add(15 * time.Minute),
	}}
	rr := serve(t, svc, http.MethodPost, "/auth/refresh", `{"refreshToken":"refresh1"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "refresh2") {
		t.Errorf("body: %q", rr.Body.String())
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	svc := &fakeAuthService{refreshErr: service.ErrInvalidRefreshToken}
	rr := serve(t, svc, http.MethodPost, "/auth/refresh", `{"refreshToken":"bad"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestAuthRoutes_MethodNotAllowed(t *testing.T) {
	rr := serve(t, &fakeAuthService{}, http.MethodGet, "/auth/login", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}
