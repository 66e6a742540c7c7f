// Package postgres implements the repositories on PostgreSQL through GORM.
// Nested documents (profile, plan, details, transcript) are stored as jsonb.
package postgres

import (
	"fmt"
	"log"
	"os"
	"time"

	"fittrack/fitness-app/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to dsn, configures the pool and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 newLogger,
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("INFO: Connected to PostgreSQL and migrated schema")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userModel{}, &planModel{}, &logModel{}, &chatModel{}, &settingModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewRepositories builds every repository over db.
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Users:    &userRepository{db: db},
		Sessions: &sessionRepository{db: db},
		Plans:    &planRepository{db: db},
		Logs:     &logRepository{db: db},
		Chats:    &chatRepository{db: db},
		Settings: &settingsRepository{db: db},
	}
}
