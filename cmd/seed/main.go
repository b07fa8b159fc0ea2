// seed inserts an initial admin account and sample catalog data for local
// testing. Idempotent: skips inserts when the admin email already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"user-management-api/internal/config"
	"user-management-api/internal/db"
	productdomain "user-management-api/internal/product/domain"
	productrepo "user-management-api/internal/product/repository"
	"user-management-api/internal/security"
	userdomain "user-management-api/internal/user/domain"
	userrepo "user-management-api/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is not set")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)
	products := productrepo.NewPostgresRepository(conn)

	exists, err := users.EmailExists(ctx, cfg.SeedAdminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if exists {
		log.Printf("seed already applied (%s exists), skipping", cfg.SeedAdminEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash(cfg.SeedAdminPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	admin := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        cfg.SeedAdminEmail,
		Name:         "Administrator",
		Role:         userdomain.RoleAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := admin.Validate(); err != nil {
		log.Fatalf("admin user: %v", err)
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	sample := []*productdomain.Product{
		{Name: "Keyboard", Description: "Mechanical, tenkeyless", PriceCents: 12900, Stock: 25},
		{Name: "Mouse", Description: "Wireless, ergonomic", PriceCents: 4900, Stock: 40},
		{Name: "Monitor", Description: "27 inch, 1440p", PriceCents: 29900, Stock: 10},
	}
	for _, p := range sample {
		p.ID = uuid.New().String()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := products.Create(ctx, p); err != nil {
			log.Fatalf("create product %s: %v", p.Name, err)
		}
	}

	log.Printf("seed completed: admin %s and %d sample products", cfg.SeedAdminEmail, len(sample))
}
