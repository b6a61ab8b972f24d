package database

import (
	"fmt"

	"github.com/casbin/gorm-adapter/v3"
	"github.com/you/checkoutsvc/internal/infrastructure/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "checkout.",
		},
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate performs database migration for all required tables,
// including the Casbin policy table for RBAC
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBCustomer{},
		&repositories.DBProfile{},
		&repositories.DBTicketType{},
		&repositories.DBTransaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate checkout tables: %w", err)
	}

	// The adapter creates the casbin_rules table on initialization
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
