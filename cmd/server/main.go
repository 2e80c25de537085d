// Package main is the entry point for the Municore API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"municore/internal/domain/archive"
	"municore/internal/domain/auth"
	"municore/internal/domain/mayoralty"
	"municore/internal/domain/official"
	"municore/internal/domain/project"
	"municore/internal/domain/reconcile"
	"municore/internal/domain/secretariat"
	"municore/internal/domain/subsecretariat"
	v1 "municore/internal/infrastructure/http/v1"
	"municore/internal/infrastructure/storage/postgres"
	"municore/internal/infrastructure/storage/postgres/archive_repo"
	"municore/internal/infrastructure/storage/postgres/assoc_repo"
	"municore/internal/infrastructure/storage/postgres/auth_repo"
	"municore/internal/infrastructure/storage/postgres/record_repo"
	"municore/pkg/codegen"
	"municore/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting municore server")

	// --- Database connection ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalw("failed to ping database", "error", err)
	}
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Deletion archive ---
	archiveService, err := archive.NewService(archive_repo.New(txManager))
	if err != nil {
		log.Fatalw("failed to initialize deletion archive", "error", err)
	}

	// --- Code generator ---
	// Runs against the pool so allocated numbers survive rolled-back
	// business transactions.
	codes := codegen.New(pool)
	codes.RegisterKind("secretariats", codegen.Config{Prefix: "SEC"})
	codes.RegisterKind("subsecretariats", codegen.Config{Prefix: "SUB"})
	codes.RegisterKind("officials", codegen.Config{Prefix: "OFF"})
	codes.RegisterKind("projects", codegen.Config{Prefix: "PRJ"})

	// --- Repositories ---
	mayoraltyRepo := record_repo.NewMayoraltyRepo(txManager)
	secretariatRepo := record_repo.NewSecretariatRepo(txManager)
	subsecretariatRepo := record_repo.NewSubsecretariatRepo(txManager)
	officialRepo := record_repo.NewOfficialRepo(txManager)
	projectRepo := record_repo.NewProjectRepo(txManager)

	// --- Relationship reconcilers ---
	secretariatLinks := reconcile.New(reconcile.Config{
		Store:       assoc_repo.New(txManager, "subsecretariat_secretariats", "subsecretariat_id", "secretariat_id"),
		Refs:        secretariatRepo,
		TxManager:   txManager,
		Archive:     archiveService,
		Table:       "subsecretariat_secretariats",
		RightEntity: "secretariat",
	})
	officialLinks := reconcile.New(reconcile.Config{
		Store:       assoc_repo.New(txManager, "subsecretariat_officials", "subsecretariat_id", "official_id"),
		Refs:        officialRepo,
		TxManager:   txManager,
		Archive:     archiveService,
		Table:       "subsecretariat_officials",
		RightEntity: "official",
	})

	// --- Domain services ---
	mayoralties := mayoralty.NewService(mayoraltyRepo, txManager, archiveService, mayoraltyRepo.Snapshot)

	secretariats := secretariat.NewService(secretariat.ServiceConfig{
		Repo:        secretariatRepo,
		TxManager:   txManager,
		Archive:     archiveService,
		Codes:       codes,
		Snapshot:    secretariatRepo.Snapshot,
		Memberships: secretariatLinks,
	})

	subsecretariats := subsecretariat.NewService(subsecretariat.ServiceConfig{
		Repo:         subsecretariatRepo,
		TxManager:    txManager,
		Archive:      archiveService,
		Codes:        codes,
		Snapshot:     subsecretariatRepo.Snapshot,
		Secretariats: secretariatLinks,
		Officials:    officialLinks,
	})

	officials := official.NewService(official.ServiceConfig{
		Repo:        officialRepo,
		TxManager:   txManager,
		Archive:     archiveService,
		Codes:       codes,
		Snapshot:    officialRepo.Snapshot,
		Assignments: officialLinks,
	})

	projects := project.NewService(project.ServiceConfig{
		Repo:      projectRepo,
		TxManager: txManager,
		Archive:   archiveService,
		Codes:     codes,
		Snapshot:  projectRepo.Snapshot,
	})

	// --- Auth ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(jwtSecret))
	authService := auth.NewService(auth_repo.NewUserRepo(txManager), jwtService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool,
		Logger:          log,
		JWTValidator:    jwtService,
		AuthService:     authService,
		Mayoralties:     mayoralties,
		Secretariats:    secretariats,
		Subsecretariats: subsecretariats,
		Officials:       officials,
		Projects:        projects,
		Archive:         archiveService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
