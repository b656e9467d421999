package database

import (
	"clinic-backend/internal/config"
	"clinic-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the database connection.
var DB *gorm.DB

// InitDB initializes the database connection.
func InitDB(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		return err
	}
	return Migrate(DB)
}

// Migrate creates or updates the full clinic schema. Parent tables go
// first so the FK constraints resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Doctor{},
		&models.Visit{},
		&models.Appointment{},
		&models.Prescription{},
		&models.Treatment{},
		&models.Billing{},
		&models.InventoryItem{},
		&models.InventoryUsage{},
		&models.AuditLog{},
		&models.RevokedToken{},
	)
}
