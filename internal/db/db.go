// Package db provides database connection and migration functionality.
package db

import (
	"fmt"
	stdlog "log"
	"os"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens a database connection using the provided configuration.
func Open(cfg config.Config) (*gorm.DB, error) {
	// Configure GORM logger (Silent to avoid cluttering output; only errors will be logged)
	newLogger := logger.New(
		stdlog.New(os.Stdout, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	if cfg.DBDialect == "" || cfg.DBDsn == "" {
		return nil, nil
	}

	switch cfg.DBDialect {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT: %s", cfg.DBDialect)
	}
}

// OpenMemory opens a shared in-memory sqlite database, used in tests.
func OpenMemory() (*gorm.DB, error) {
	return gorm.Open(
		sqlite.Open("file::memory:?cache=shared"),
		&gorm.Config{Logger: logger.Discard},
	)
}

// AutoMigrate runs database migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&models.ListingItem{},
		&models.ListingItemTemplate{},
		&models.ItemInformation{},
		&models.ItemCategory{},
		&models.ItemLocation{},
		&models.LocationMarker{},
		&models.ShippingDestination{},
		&models.ItemImage{},
		&models.ItemImageData{},
		&models.PaymentInformation{},
		&models.Escrow{},
		&models.EscrowRatio{},
		&models.ItemPrice{},
		&models.ShippingPrice{},
		&models.CryptocurrencyAddress{},
		&models.MessagingInformation{},
		&models.ListingItemObject{},
		&models.ListingItemObjectData{},
		&models.Proposal{},
		&models.ProposalOption{},
		&models.ProposalResult{},
		&models.ProposalOptionResult{},
		&models.Vote{},
	)
}
