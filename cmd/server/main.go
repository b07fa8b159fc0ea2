package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-management-api/internal/audit"
	auditrepo "user-management-api/internal/audit/repository"
	"user-management-api/internal/config"
	"user-management-api/internal/db"
	"user-management-api/internal/identity/service"
	productrepo "user-management-api/internal/product/repository"
	"user-management-api/internal/security"
	"user-management-api/internal/server"
	"user-management-api/internal/server/middleware"
	"user-management-api/internal/telemetry"
	"user-management-api/internal/telemetry/otel"
	"user-management-api/internal/telemetry/producer"
	userrepo "user-management-api/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	secret, err := security.LoadSecret(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("jwt secret: %v", err)
	}
	tokens, err := security.NewTokenProvider(secret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL())
	if err != nil {
		log.Fatalf("token provider: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "user-management-api", false)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	// Kafka takes precedence for request telemetry when brokers are set;
	// otherwise events go out as OTel log records.
	var emitter telemetry.EventEmitter
	kafkaProducer, err := producer.NewKafkaProducer(cfg.TelemetryKafkaBrokersList(), cfg.TelemetryKafkaTopic)
	if err != nil {
		log.Fatalf("kafka producer: %v", err)
	}
	if kafkaProducer != nil {
		emitter = kafkaProducer
		defer kafkaProducer.Close()
	} else {
		emitter = otel.NewEventEmitter(providers.LoggerProvider)
	}

	users := userrepo.NewPostgresRepository(conn)
	products := productrepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)
	auditLogger := audit.NewLogger(audits, middleware.ClientIP)

	hasher := security.NewHasher(cfg.BcryptCost)
	auth := service.NewAuthService(users, hasher, tokens, cfg.RefreshTTL(), auditLogger)

	handler := server.New(server.Deps{
		Auth:     auth,
		Users:    users,
		Products: products,
		Tokens:   tokens,
		DB:       conn,
		Emitter:  emitter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Give in-flight async telemetry emits time to finish before the
	// providers go away.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
