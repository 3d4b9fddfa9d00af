// server/internal/database/seeder.go
package database

import (
	"context"
	"log/slog"

	"workforce-ops-api-server/config"
	"workforce-ops-api-server/internal/services"
)

// SeedAdmin tạo tài khoản admin mặc định nếu chưa có.
func SeedAdmin(ctx context.Context, users *services.UserService, cfg config.AuthConfig, log *slog.Logger) error {
	created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if !created {
		log.Info("admin already exists, seeding skipped", "email", cfg.AdminEmail)
		return nil
	}
	log.Info("admin seeded successfully", "email", cfg.AdminEmail)
	return nil
}
