// Package handler is the HTTP surface for the product catalog. Reads need an
// authenticated caller; writes need the Admin role.
package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"user-management-api/internal/platform/httpjson"
	"user-management-api/internal/platform/rbac"
	"user-management-api/internal/product/domain"
	productrepo "user-management-api/internal/product/repository"
)

// Server serves the /products routes.
type Server struct {
	products productrepo.Repository
}

// NewServer returns a new product HTTP handler.
func NewServer(products productrepo.Repository) *Server {
	return &Server{products: products}
}

// Routes registers the product endpoints on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", s.List)
	mux.HandleFunc("GET /products/{id}", s.Get)
	mux.HandleFunc("POST /products", s.Create)
	mux.HandleFunc("PUT /products/{id}", s.Update)
	mux.HandleFunc("DELETE /products/{id}", s.Delete)
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int32  `json:"stock"`
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"priceCents"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// List handles GET /products.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	if _, _, err := rbac.RequireAuthenticated(r.Context()); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	limit, offset := pagination(r)
	products, err := s.products.List(r.Context(), limit, offset)
	if err != nil {
		log.Printf("products: list failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"products": out})
}

// Get handles GET /products/{id}.
func (s *Server) Get(w http.ResponseWriter, r *http.Request) {
	if _, _, err := rbac.RequireAuthenticated(r.Context()); err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := s.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("products: get failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to look up product")
		return
	}
	if p == nil {
		httpjson.Error(w, http.StatusNotFound, "product not found")
		return
	}
	httpjson.Write(w, http.StatusOK, toProductResponse(p))
}

// Create handles POST /products. Admin only.
func (s *Server) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	var req productRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	now := time.Now().UTC()
	p := &domain.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.products.Create(r.Context(), p); err != nil {
		log.Printf("products: create failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	httpjson.Write(w, http.StatusCreated, toProductResponse(p))
}

// Update handles PUT /products/{id}. Admin only.
func (s *Server) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	var req productRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Printf("products: get failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to look up product")
		return
	}
	if p == nil {
		httpjson.Error(w, http.StatusNotFound, "product not found")
		return
	}
	p.Name = req.Name
	p.Description = req.Description
	p.PriceCents = req.PriceCents
	p.Stock = req.Stock
	if err := p.Validate(); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.products.Update(r.Context(), p); err != nil {
		log.Printf("products: update failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	httpjson.Write(w, http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /products/{id}. Admin only.
func (s *Server) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := rbac.RequireAdmin(r.Context()); err != nil {
		writeRBACError(w, err)
		return
	}
	if err := s.products.Delete(r.Context(), r.PathValue("id")); err != nil {
		log.Printf("products: delete failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	httpjson.Write(w, http.StatusNoContent, nil)
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
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
