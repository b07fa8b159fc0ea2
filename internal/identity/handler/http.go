// Package handler is the HTTP surface for registration, login, and token
// refresh. It is a thin translation layer over the auth service: decode,
// call, map errors to status codes. It never logs request bodies or tokens.
package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"user-management-api/internal/identity/service"
	"user-management-api/internal/platform/httpjson"
	userdomain "user-management-api/internal/user/domain"
)

// AuthService is the service surface the handler needs.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role userdomain.Role) (*userdomain.User, error)
	Login(ctx context.Context, email, password string) (*service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
}

// AuthHandler serves /auth/register, /auth/login, and /auth/refresh.
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler returns a new auth HTTP handler.
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Routes registers the auth endpoints on mux.
func (h *AuthHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password, userdomain.Role(req.Role))
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, registerResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    string `json:"expiresAt"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tokenPairResponse(pair))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tokenPairResponse(pair))
}

func tokenPairResponse(pair *service.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeAuthError maps service errors to HTTP responses. Credential and
// refresh failures share a single generic 401 so the response does not
// reveal which check failed.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		httpjson.Error(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		httpjson.Error(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		httpjson.Error(w, http.StatusUnauthorized, "invalid or expired refresh token")
	default:
		log.Printf("auth: request failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
