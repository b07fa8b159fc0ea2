// Package handler is the HTTP surface for user administration. Responses
// never include the password hash or refresh-token fields.
package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"user-management-api/internal/platform/httpjson"
	"user-management-api/internal/platform/rbac"
	"user-management-api/internal/user/domain"
	userrepo "user-management-api/internal/user/repository"
)

// Server serves the /users routes.
type Server struct {
	userRepo userrepo.Repository
}

// NewServer returns a new user HTTP handler.
func NewServer(userRepo userrepo.Repository) *Server {
	return &Server{userRepo: userRepo}
}

// Routes registers the user endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", s.List)
	mux.HandleFunc("GET /users/{id}", s.Get)
	mux.HandleFunc("PUT /users/{id}", s.Update)
	mux.HandleFunc("DELETE /users/{id}", s.Delete)
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List handles GET /users. Admin only.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	limit, offset := pagination(r)
	users, err := s.userRepo.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("users: list failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"users": out})
}

// Get handles GET /users/{id}. Admins may fetch anyone; others only themselves.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	callerID, role, err := rbac.RequireAuthenticated(r.Context())
	if err != nil {
		writeRBACError(w, err)
		return
	}
	id := r.PathValue("id")
	if domain.Role(role) != domain.RoleAdmin && callerID != id {
		httpjson.Error(w, http.StatusForbidden, "cannot access another user")
		return
	}
	u, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("users: get failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if u == nil {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(u))
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Update handles PUT /users/{id}. Admin only. Credential fields are not
// touched; they change only through the auth flow.
func (s *Server) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	var req updateUserRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		httpjson.Error(w, http.StatusBadRequest, "unknown role")
		return
	}
	id := r.PathValue("id")
	u, err := s.userRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("users: get failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to look up user")
		return
	}
	if u == nil {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}
	u.Name = req.Name
	u.Email = req.Email
	u.Role = role
	if err := s.userRepo.Update(r.Context(), u); err != nil {
		log.Printf("users: update failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	httpjson.Write(w, http.StatusOK, toUserResponse(u))
}

// Delete handles DELETE /users/{id}. Admin only.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	if err := s.userRepo.Delete(r.Context(), r.PathValue("id")); err != nil {
		log.Printf("users: delete failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func writeRBACError(w http.ResponseWriter, err error) {
	switch err {
	case rbac.ErrUnauthenticated:
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
	default:
		httpjson.Error(w, http.StatusForbidden, "admin role required")
	}
}

func pagination(r *http.Request) (limit, offset int32) {
	limit, offset = 50, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n > 0 && n <= 200 {
			limit = int32(n)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil && n >= 0 {
			offset = int32(n)
		}
	}
	return limit, offset
}
