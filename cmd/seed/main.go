// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"municore/internal/core/apperror"
	"municore/internal/domain/archive"
	"municore/internal/domain/auth"
	"municore/internal/domain/mayoralty"
	"municore/internal/domain/official"
	"municore/internal/domain/project"
	"municore/internal/domain/reconcile"
	"municore/internal/domain/secretariat"
	"municore/internal/domain/subsecretariat"
	"municore/internal/infrastructure/storage/postgres"
	"municore/internal/infrastructure/storage/postgres/archive_repo"
	"municore/internal/infrastructure/storage/postgres/assoc_repo"
	"municore/internal/infrastructure/storage/postgres/auth_repo"
	"municore/internal/infrastructure/storage/postgres/record_repo"
	"municore/pkg/codegen"
	"municore/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	app := buildServices(pool)

	m, err := seedMayoralty(ctx, app, log)
	if err != nil {
		log.Fatalw("failed to seed mayoralty", "error", err)
	}

	if err := seedAdminUser(ctx, app, log, m.ID); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoRecords(ctx, app, log, m.ID); err != nil {
			log.Fatalw("failed to seed demo records", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// services bundles everything the seeder needs.
type services struct {
	mayoralties     *mayoralty.Service
	secretariats    *secretariat.Service
	subsecretariats *subsecretariat.Service
	officials       *official.Service
	projects        *project.Service
	auth            *auth.Service
}

func buildServices(pool *postgres.Pool) *services {
	txManager := postgres.NewTxManager(pool)

	archiveService, err := archive.NewService(archive_repo.New(txManager))
	if err != nil {
		panic(err)
	}

	codes := codegen.New(pool)
	codes.RegisterKind("secretariats", codegen.Config{Prefix: "SEC"})
	codes.RegisterKind("subsecretariats", codegen.Config{Prefix: "SUB"})
	codes.RegisterKind("officials", codegen.Config{Prefix: "OFF"})
	codes.RegisterKind("projects", codegen.Config{Prefix: "PRJ"})

	mayoraltyRepo := record_repo.NewMayoraltyRepo(txManager)
	secretariatRepo := record_repo.NewSecretariatRepo(txManager)
	subsecretariatRepo := record_repo.NewSubsecretariatRepo(txManager)
	officialRepo := record_repo.NewOfficialRepo(txManager)
	projectRepo := record_repo.NewProjectRepo(txManager)

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

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(os.Getenv("JWT_SECRET")))

	return &services{
		mayoralties: mayoralty.NewService(mayoraltyRepo, txManager, archiveService, mayoraltyRepo.Snapshot),
		secretariats: secretariat.NewService(secretariat.ServiceConfig{
			Repo:        secretariatRepo,
			TxManager:   txManager,
			Archive:     archiveService,
			Codes:       codes,
			Snapshot:    secretariatRepo.Snapshot,
			Memberships: secretariatLinks,
		}),
		subsecretariats: subsecretariat.NewService(subsecretariat.ServiceConfig{
			Repo:         subsecretariatRepo,
			TxManager:    txManager,
			Archive:      archiveService,
			Codes:        codes,
			Snapshot:     subsecretariatRepo.Snapshot,
			Secretariats: secretariatLinks,
			Officials:    officialLinks,
		}),
		officials: official.NewService(official.ServiceConfig{
			Repo:        officialRepo,
			TxManager:   txManager,
			Archive:     archiveService,
			Codes:       codes,
			Snapshot:    officialRepo.Snapshot,
			Assignments: officialLinks,
		}),
		projects: project.NewService(project.ServiceConfig{
			Repo:      projectRepo,
			TxManager: txManager,
			Archive:   archiveService,
			Codes:     codes,
			Snapshot:  projectRepo.Snapshot,
		}),
		auth: auth.NewService(auth_repo.NewUserRepo(txManager), jwtService),
	}
}

func seedMayoralty(ctx context.Context, app *services, log *logger.Logger) (*mayoralty.Mayoralty, error) {
	code := getEnv("SEED_MAYORALTY_CODE", "CENTRAL")

	existing, err := app.mayoralties.GetByCode(ctx, code)
	if err == nil {
		log.Infow("mayoralty already exists", "code", code, "id", existing.ID)
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	m := mayoralty.New(code, getEnv("SEED_MAYORALTY_NAME", "Central Mayoralty"))
	dept := "Capital District"
	m.Department = &dept

	if err := app.mayoralties.Create(ctx, m); err != nil {
		return nil, err
	}

	log.Infow("mayoralty created", "code", m.Code, "id", m.ID)
	return m, nil
}

func seedAdminUser(ctx context.Context, app *services, log *logger.Logger, mayoraltyID int64) error {
	username := getEnv("ADMIN_USERNAME", "admin")
	email := getEnv("ADMIN_EMAIL", "admin@municore.io")
	password := getEnv("ADMIN_PASSWORD", "Admin123!")

	user, err := app.auth.Register(ctx, username, email, password, mayoraltyID)
	if err != nil {
		if apperror.IsDuplicateCode(err) || apperror.IsConflict(err) {
			log.Infow("admin user already exists", "username", username)
			return nil
		}
		return err
	}

	if _, err := app.auth.SetRole(ctx, user.ID, auth.RoleAdmin); err != nil {
		return err
	}

	log.Infow("admin user created", "username", username, "id", user.ID)
	return nil
}

func seedDemoRecords(ctx context.Context, app *services, log *logger.Logger, mayoraltyID int64) error {
	planning := secretariat.New(mayoraltyID, "", "Secretariat of Planning")
	if err := app.secretariats.Create(ctx, planning); err != nil {
		return err
	}
	works := secretariat.New(mayoraltyID, "", "Secretariat of Public Works")
	if err := app.secretariats.Create(ctx, works); err != nil {
		return err
	}

	urban := subsecretariat.New(mayoraltyID, "", "Subsecretariat of Urban Development")
	if err := app.subsecretariats.Create(ctx, urban); err != nil {
		return err
	}

	director := official.New(mayoraltyID, "", "Maria Torres")
	position := "Director of Planning"
	mail := "maria.torres@municore.io"
	director.Position = &position
	director.Email = &mail
	if err := app.officials.Create(ctx, director); err != nil {
		return err
	}

	// Link the subsecretariat to both secretariats and its director.
	actor := getEnv("ADMIN_USERNAME", "admin")
	if _, err := app.subsecretariats.SyncSecretariats(ctx, mayoraltyID, urban.ID, []int64{planning.ID, works.ID}, actor); err != nil {
		return err
	}
	if _, err := app.subsecretariats.SyncOfficials(ctx, mayoraltyID, urban.ID, []int64{director.ID}, actor); err != nil {
		return err
	}

	renewal := project.New(mayoraltyID, "", "Downtown Renewal Program")
	renewal.Budget = decimal.RequireFromString("1250000.00")
	objective := "Rehabilitate the historic downtown corridor"
	renewal.Objective = &objective
	if err := app.projects.Create(ctx, renewal); err != nil {
		return err
	}

	log.Infow("demo records created",
		"secretariats", 2,
		"subsecretariats", 1,
		"officials", 1,
		"projects", 1,
	)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
