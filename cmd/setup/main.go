package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/rmedina/erp-admin-api/internal/config"
	"github.com/rmedina/erp-admin-api/internal/database"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/internal/services"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// Idempotent bootstrap: migrates the schema, seeds the fixed role
// catalog and creates the default administrator account with the fixed
// employee id EMP001. Safe to re-run.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}
	logger.Info("Schema migrated")

	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos, cfg)

	ctx := context.Background()

	if err := svcs.Role.EnsureDefaultRoles(ctx); err != nil {
		log.Fatalf("Failed to seed role catalog: %v", err)
	}
	roleCount, err := svcs.Role.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count roles: %v", err)
	}
	logger.Info("Role catalog seeded", "roles", roleCount)

	adminRole, err := svcs.Role.FindByName(ctx, models.RoleAdmin)
	if err != nil {
		log.Fatalf("Admin role missing after seeding: %v", err)
	}

	if err := svcs.Account.EnsureAdminAccount(ctx, cfg.AdminUsername, cfg.AdminPassword, adminRole.ID); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}
	logger.Info("Setup complete", "admin", cfg.AdminUsername)
}
