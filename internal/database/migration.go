package database

import (
	"fmt"

	"event-inventory/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Article{},
		&models.Transaction{},
		&models.Todo{},
		&models.Operator{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
