package database

import (
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/model"
)

// Migrate creates or updates the schema for all models. Ordering matters:
// wallets before transactions and images before jobs so the foreign keys
// resolve.
func Migrate(db *gorm.DB, logger coreport.Logger) error {
	logger.Info("Running database migrations", nil)

	models := []any{
		&model.Wallet{},
		&model.Transaction{},
		&model.Image{},
		&model.ImageJob{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("Database migrations completed", map[string]any{
		"models": len(models),
	})
	return nil
}
